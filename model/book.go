// model/book.go
package model

import "time"

// Book is a title in the inventory. AvailableCopies is kept >= 0 by the
// conditional decrement in the book repository.
type Book struct {
	ID              int64  `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	AvailableCopies int64  `json:"available_copies"`
	OwnerID         int64  `json:"owner_user_id"`
}

// ISBNMaxLen matches the isbn column width.
const ISBNMaxLen = 13

// BookCheckout is an append-only borrowing record. Rows are never updated;
// deleting a book cascades to its checkouts.
type BookCheckout struct {
	ID               int64     `json:"id"`
	BookID           int64     `json:"book_id"`
	UserID           int64     `json:"user_id"`
	CheckoutDateTime time.Time `json:"checkout_date_time"`
}
