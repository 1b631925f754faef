package models

// Image representa a imagem destacada de um artigo
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

// Article representa um artigo obtido da fonte de conteúdo.
// Só existe quando a busca por path teve sucesso; ausência não é erro.
type Article struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ExcerptHTML   string `json:"excerpt_html"`
	ContentHTML   string `json:"content_html"`
	CanonicalLink string `json:"canonical_link"`
	PublishedAt   string `json:"published_at"`
	ModifiedAt    string `json:"modified_at"`
	AuthorName    string `json:"author_name,omitempty"`
	FeaturedImage *Image `json:"featured_image,omitempty"`
}

// HasImage indica se o artigo tem imagem destacada utilizável
func (a *Article) HasImage() bool {
	return a != nil && a.FeaturedImage != nil && a.FeaturedImage.URL != ""
}

// ImageAlt retorna o texto alternativo da imagem, ou o título quando ausente
func (a *Article) ImageAlt() string {
	if a.FeaturedImage != nil && a.FeaturedImage.AltText != "" {
		return a.FeaturedImage.AltText
	}
	return a.Title
}
