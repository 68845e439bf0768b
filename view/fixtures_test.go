package view

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const articleHTML = `<html><head><title>Sample</title>
<!--common--><style>body { margin: 0 }</style>
<!--proseScreen--><style>#slideFrame { display: none }</style>
<!--prosePrint--><style>p { color: black }</style>
<!--slideScreen--><style>#slideFrame { display: block } #bodyPages { display: none }</style>
<!--slidePrint--><style>.slide { page-break-after: always }</style>
<!--codeScreen--><style>#bodyPages { display: none }</style>
<!--codePrint--><style>#bodyPages { display: none }</style>
</head><body>
<div id="frontMatter"><p id="documentTitle">Sample Article</p><p id="authorList">A. Author</p><p id="documentDate">2020</p><div id="documentAbstract">Abstract text</div><div id="documentThanks">Thanks</div></div>
<div id="bodyPages">
<div class="section"><h3 id="secA"><span class="sectionNumber">1</span> <span class="sectionName">A</span></h3>
<div class="slide"><p>a1</p></div>
</div>
<div class="section"><h3 id="secB"><span class="sectionNumber">2</span> <span class="sectionName">B</span></h3>
<div class="slide"><p>b1</p></div>
<div class="subsection"><h4 id="secB1"><span class="sectionNumber">2.1</span> <span class="sectionName">B.1</span></h4>
<div class="slide"><p>b11 <a href="#secA">see A</a> <a href="#nowhere">gone</a> <a href="#secC1"><span class="sectionNumber">3.1</span></a></p></div>
</div>
</div>
<div class="section"><h3 id="secC" class="sectionAppendix"><span class="sectionNumber">3</span> <span class="sectionName">Extra</span></h3>
<div class="subsection"><h4 id="secC1"><span class="sectionNumber">3.1</span> <span class="sectionName">More</span></h4><p>c</p></div>
</div>
<div class="box" id="box1"><p class="caption"><a id="box1cap"></a>Box <span class="floatNumber">1</span></p><p>boxed</p></div>
</div>
<div id="onlyCode"><pre>code</pre></div>
</body></html>`

const monographHTML = `<html><head><title>Book</title>
<!--common--><style>body { margin: 0 }</style>
<!--chapterScreen--><style>#bodyPages { display: none }</style>
<!--slideScreen--><style>#chapterFrame { display: none }</style>
<!--prosePrint--><style>#chapterFrame { display: none }</style>
</head><body>
<div id="frontMatter"><p id="documentTitle">The Book</p><p id="authorList">B. Writer</p><div id="coverArt"><p>art</p></div><p id="documentDedication">For you</p></div>
<div id="bodyPages">
<div class="chapter"><h2 id="ch1" class="chapter"><span class="chapterNumber">1</span> <span class="sectionName">One</span></h2>
<div class="section"><h3 id="s11">Intro</h3><div class="slide"><p>one-a <a href="#ch2">next</a></p></div></div>
</div>
<div class="chapter"><h2 id="ch2" class="chapter"><span class="chapterNumber">2</span> <span class="sectionName">Two</span></h2>
<div class="section"><h3 id="s21">Start</h3><div class="slide"><p>two-a</p></div><div class="slide"><p>two-b</p></div></div>
</div>
<div class="chapter"><h2 id="app1" class="chapterAppendix"><span class="chapterNumber">3</span> <span class="sectionName">Appendix</span></h2>
<p>x <a class="appendixref" href="#app1"><span class="chapterNumber">3</span></a></p></div>
<div class="box" id="fig"><p class="caption"><a id="figcap"></a>Figure <span class="chapterNumber">2</span><span class="floatNumber">1</span></p></div>
</div>
<div id="onlyCode"><pre>x</pre></div>
</body></html>`

const testURL = "http://docs.test/doc/sample"

func parseFixture(t *testing.T, src string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return root
}

func assembleFixture(t *testing.T, src, fragment string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(src), Options{Fragment: fragment, URL: testURL})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func newFixtureViewer(t *testing.T, src string) *Viewer {
	t.Helper()
	v, err := NewViewer(assembleFixture(t, src, ""), Pair{})
	if err != nil {
		t.Fatalf("NewViewer: %v", err)
	}
	return v
}

func press(t *testing.T, v *Viewer, k Key) Outcome {
	t.Helper()
	out, err := v.Press(k)
	if err != nil {
		t.Fatalf("Press(%s): %v", k, err)
	}
	return out
}

type recordingURLs struct{}

func (recordingURLs) Fragment(id string) string { return "frag:" + id }

func (recordingURLs) Unit(i int, anchor string) string {
	return "unit:" + string(rune('0'+i)) + "#" + anchor
}
