package models

// PageSize is how many posts every listing page holds.
const PageSize = 10

// Page is one slice of a reverse-chronological post listing.
type Page struct {
	Posts  []Post
	Number int // 1-based, clamped into [1, Pages]
	Total  int // posts across all pages
	Pages  int // page count, at least 1
}

func (p *Page) HasPrev() bool { return p.Number > 1 }
func (p *Page) HasNext() bool { return p.Number < p.Pages }
func (p *Page) Prev() int     { return p.Number - 1 }
func (p *Page) Next() int     { return p.Number + 1 }
