package domain

// Book is a catalog entry.
//
// OwnerID is empty for unowned records, e.g. rows created before ownership
// was tracked or whose owner account has been removed.
type Book struct {
	Timestamps
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Price     Price  `json:"price"`
	AutorName string `json:"autor_name"`
	OwnerID   string `json:"owner,omitempty"`
}

// HasOwner reports whether the book is attributed to a user.
func (b *Book) HasOwner() bool {
	return b.OwnerID != ""
}

// IsOwnedBy reports whether the given user owns the book.
func (b *Book) IsOwnedBy(userID string) bool {
	return userID != "" && b.OwnerID == userID
}

// AnnotatedBook is a book together with the aggregates computed over its relations.
type AnnotatedBook struct {
	Book
	// AnnotatedLikes is the number of relations with Like set.
	AnnotatedLikes int64
	// Rating is the rounded mean of non-null rates, nil when nobody has rated the book.
	Rating *Rating
}

// CanModifyBook reports whether user may update or delete book.
// Staff may modify anything; everyone else only the books they own.
// Anonymous callers may never modify.
func CanModifyBook(user *User, book *Book) bool {
	if user.IsAnonymous() || book == nil {
		return false
	}
	if user.IsStaff {
		return true
	}
	return book.IsOwnedBy(user.ID)
}
