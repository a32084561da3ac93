// Package urls builds the public paths of the site so handlers, templates
// and the access guard agree on them.
package urls

import (
	"fmt"
	"net/url"
	"strings"
)

func Index() string                  { return "/" }
func Group(slug string) string       { return "/group/" + url.PathEscape(slug) + "/" }
func Profile(username string) string { return "/profile/" + url.PathEscape(username) + "/" }
func Post(id uint) string            { return fmt.Sprintf("/posts/%d/", id) }
func PostEdit(id uint) string        { return fmt.Sprintf("/posts/%d/edit/", id) }
func PostComment(id uint) string     { return fmt.Sprintf("/posts/%d/comment/", id) }
func Create() string                 { return "/create/" }
func FollowIndex() string            { return "/follow/" }
func Follow(username string) string  { return Profile(username) + "follow/" }
func Unfollow(username string) string {
	return Profile(username) + "unfollow/"
}
func Media(ref string) string { return "/media/" + url.PathEscape(ref) }

// Login appends ?next=<next> to the login URL, leaving slashes readable.
func Login(loginURL, next string) string {
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}
