package models

// StaticPage - информационная страница (FAQ, правила и т.п.).
type StaticPage struct {
	Slug  string
	Title string
	Body  string
}
