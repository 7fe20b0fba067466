package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanModifyBook(t *testing.T) {
	owner := &User{ID: "user-owner"}
	other := &User{ID: "user-other"}
	staff := &User{ID: "user-staff", IsStaff: true}

	owned := &Book{ID: 1, OwnerID: owner.ID}
	unowned := &Book{ID: 2}

	tests := []struct {
		name string
		user *User
		book *Book
		want bool
	}{
		{"owner can modify own book", owner, owned, true},
		{"other user cannot modify", other, owned, false},
		{"staff can modify any book", staff, owned, true},
		{"staff can modify unowned book", staff, unowned, true},
		{"regular user cannot modify unowned book", owner, unowned, false},
		{"anonymous cannot modify", nil, owned, false},
		{"empty user cannot modify", &User{}, owned, false},
		{"nil book", staff, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModifyBook(tt.user, tt.book))
		})
	}
}

func TestBook_IsOwnedBy(t *testing.T) {
	b := &Book{OwnerID: "user-1"}
	assert.True(t, b.IsOwnedBy("user-1"))
	assert.False(t, b.IsOwnedBy("user-2"))
	assert.False(t, (&Book{}).IsOwnedBy(""))
	assert.True(t, b.HasOwner())
}
