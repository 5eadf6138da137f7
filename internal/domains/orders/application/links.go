package application

import (
	"fmt"
	"time"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
)

// ListPath is the route the navigation links point at.
const ListPath = "/api/order/list"

// Link is a single navigation target.
type Link struct {
	Href string `json:"href"`
}

// Links carries listing navigation. Previous and Next are nil at the edges.
type Links struct {
	Self     *Link `json:"self"`
	First    *Link `json:"first"`
	Last     *Link `json:"last"`
	Previous *Link `json:"previous"`
	Next     *Link `json:"next"`
}

// BuildLinks derives navigation links for a listing of totalPages pages.
// Inputs are not validated.
func BuildLinks(totalPages int, date time.Time, limit, offset int, invoice domain.Invoice) Links {
	link := func(at int) *Link {
		return &Link{Href: listURL(date, limit, at, invoice)}
	}
	links := Links{
		Self:  link(offset),
		First: link(0),
		Last:  link(totalPages - 1),
	}
	if offset > 0 {
		links.Previous = link(offset - 1)
	}
	if offset+1 < totalPages {
		links.Next = link(offset + 1)
	}
	return links
}

func listURL(date time.Time, limit, offset int, invoice domain.Invoice) string {
	return fmt.Sprintf("%s?date=%s&limit=%d&offset=%d&invoice=%s",
		ListPath, date.Format(domain.DateLayout), limit, offset, invoice)
}
