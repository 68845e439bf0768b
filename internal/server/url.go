package server

import (
	neturl "net/url"
	"strconv"
	"strings"
)

// sessionURLs points redirected links back at the server: unit links drive
// the reader's own session, fragment links open a new one on the scope.
type sessionURLs struct {
	name string
	sid  string
}

func docPath(name string) string {
	return "/doc/" + neturl.PathEscape(name)
}

func sessionPath(sid string) string {
	return "/s/" + sid
}

func (u sessionURLs) Fragment(id string) string {
	v := neturl.Values{}
	v.Set("fragment", id)
	return docPath(u.name) + "?" + strings.ReplaceAll(v.Encode(), "+", "%20")
}

func (u sessionURLs) Unit(i int, anchor string) string {
	out := sessionPath(u.sid) + "/unit/" + strconv.Itoa(i)
	if anchor != "" {
		out += "#" + strings.ReplaceAll(anchor, " ", "%20")
	}
	return out
}

// documentURL is the absolute address a document is served under, used to
// recognize links that spell out the document's own URL.
func documentURL(base, name string) string {
	return strings.TrimRight(base, "/") + docPath(name)
}
