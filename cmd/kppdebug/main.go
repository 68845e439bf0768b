package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"kpp/view"
)

var conventionIDs = []string{
	"frontMatter", "documentTitle", "authorList", "documentDate", "unionBugs",
	"classification", "coverArt", "documentAbstract", "documentThanks",
	"documentDedication", "documentPreface", "bodyPages", "onlyCode",
}

var conventionSelectors = []string{
	"div.slide", "div.section", "div.subsection", "div.subsubsection",
	"div.chapter", "div.box", "h2.chapterAppendix", "h3.sectionAppendix",
	".caption", ".floatNumber", ".sectionNumber", ".chapterNumber", "a.appendixref",
}

func main() {
	all := flag.Bool("classes", false, "also list every class name with its count")
	flag.Parse()
	src := "index.html"
	if flag.NArg() > 0 {
		src = flag.Arg(0)
	}
	log.Printf("read %s", src)
	r, err := open(src)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()
	doc, err := html.Parse(r)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("class=%s\n", view.DetectClass(doc))
	head := cascadia.Query(doc, cascadia.MustCompile("head"))
	if head == nil {
		log.Fatal("no head")
	}
	styles := view.CollectStyles(head)
	for _, role := range styles.Roles() {
		sheet := styles.Sheet(role)
		if sheet.Err != nil {
			fmt.Printf("style role=%s rules=%d err=%v\n", role, sheet.Rules, sheet.Err)
			continue
		}
		fmt.Printf("style role=%s rules=%d\n", role, sheet.Rules)
	}
	for _, id := range conventionIDs {
		present := cascadia.Query(doc, cascadia.MustCompile("#"+id)) != nil
		fmt.Printf("id=%s present=%v\n", id, present)
	}
	for _, sel := range conventionSelectors {
		fmt.Printf("select=%q count=%d\n", sel, len(cascadia.QueryAll(doc, cascadia.MustCompile(sel))))
	}
	if *all {
		counts := map[string]int{}
		var visit func(*html.Node)
		visit = func(n *html.Node) {
			if n.Type == html.ElementNode {
				for _, a := range n.Attr {
					if a.Key == "class" {
						for _, c := range strings.Fields(a.Val) {
							counts[c]++
						}
					}
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				visit(c)
			}
		}
		visit(doc)
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("class=%s count=%d\n", name, counts[name])
		}
	}
}

func open(src string) (io.ReadCloser, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.Open(src)
	}
	req, err := http.NewRequest(http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "kppdebug/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %s", src, resp.Status)
	}
	return resp.Body, nil
}
