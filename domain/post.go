package domain

// Post is a blog entry. Email identifies the owner and never changes once the
// post has been stored.
type Post struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Message  string `json:"message,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// OwnedBy reports whether identity is the owner of the post.
func (p Post) OwnedBy(identity string) bool {
	return p.Email != "" && p.Email == identity
}
