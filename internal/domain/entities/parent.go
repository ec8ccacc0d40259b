package entities

// Parent is one row of the input catalog: an opaque identifier plus the
// locator of the page to crawl for it.
type Parent struct {
	ID      string `json:"id"`
	Locator string `json:"link"`
}

// Page is the outcome of fetching one locator. A failed fetch carries Err and
// empty Content; it is never surfaced as an error to the crawl driver.
type Page struct {
	Locator string
	Content string
	Err     error
}

// Failed reports whether the fetch behind this page failed.
func (p Page) Failed() bool {
	return p.Err != nil
}
