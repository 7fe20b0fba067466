package domain

// UserBookRelation captures one user's like, bookmark and rating for one book.
// There is at most one relation per (user, book) pair.
type UserBookRelation struct {
	Timestamps
	ID          int64  `json:"id"`
	UserID      string `json:"user_id"`
	BookID      int64  `json:"book"`
	Like        bool   `json:"like"`
	InBookmarks bool   `json:"in_bookmarks"`
	Rate        *int   `json:"rate"`
}

// NewUserBookRelation returns the default relation for a user and book:
// not liked, not bookmarked, unrated.
func NewUserBookRelation(userID string, bookID int64) *UserBookRelation {
	r := &UserBookRelation{
		UserID: userID,
		BookID: bookID,
	}
	r.InitTimestamps()
	return r
}

// OptionalRate distinguishes an absent rate from an explicit null.
type OptionalRate struct {
	Set   bool // the field was present in the request
	Value *int // nil clears the rating
}

// SetRate returns an OptionalRate that assigns v.
func SetRate(v int) OptionalRate {
	return OptionalRate{Set: true, Value: &v}
}

// ClearRate returns an OptionalRate that removes the rating.
func ClearRate() OptionalRate {
	return OptionalRate{Set: true}
}

// RelationPatch is a partial update to a UserBookRelation.
// Nil or unset fields are left untouched.
type RelationPatch struct {
	Like        *bool
	InBookmarks *bool
	Rate        OptionalRate
}

// Empty reports whether the patch changes nothing.
func (p RelationPatch) Empty() bool {
	return p.Like == nil && p.InBookmarks == nil && !p.Rate.Set
}

// Fields lists the names of the fields the patch sets.
func (p RelationPatch) Fields() []string {
	fields := make([]string, 0, 3)
	if p.Like != nil {
		fields = append(fields, "like")
	}
	if p.InBookmarks != nil {
		fields = append(fields, "in_bookmarks")
	}
	if p.Rate.Set {
		fields = append(fields, "rate")
	}
	return fields
}

// Apply copies the set fields onto r and reports whether anything changed.
func (p RelationPatch) Apply(r *UserBookRelation) bool {
	changed := false
	if p.Like != nil && *p.Like != r.Like {
		r.Like = *p.Like
		changed = true
	}
	if p.InBookmarks != nil && *p.InBookmarks != r.InBookmarks {
		r.InBookmarks = *p.InBookmarks
		changed = true
	}
	if p.Rate.Set && !sameRate(r.Rate, p.Rate.Value) {
		if p.Rate.Value == nil {
			r.Rate = nil
		} else {
			v := *p.Rate.Value
			r.Rate = &v
		}
		changed = true
	}
	if changed {
		r.Touch()
	}
	return changed
}

func sameRate(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
