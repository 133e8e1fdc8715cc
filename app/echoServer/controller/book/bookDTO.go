package book

type CreateBookReq struct {
	ISBN            string `json:"isbn" validate:"required,max=13"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	AvailableCopies int64  `json:"available_copies" validate:"gte=0"`
}

// UpdateBookReq is a partial patch: absent fields stay untouched.
type UpdateBookReq struct {
	ISBN            *string `json:"isbn" validate:"omitempty,max=13"`
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	AvailableCopies *int64  `json:"available_copies" validate:"omitempty,gte=0"`
	OwnerID         *int64  `json:"owner_user_id"`
}
