package schemas

import "github.com/typesense/typesense-go/v3/typesense/api"

// PostsV1 espelha os campos de um post do CMS lidos pelo gateway. O campo
// path é a chave de busca e guarda o URI do post sem barras nas pontas.
// O Typesense exige que campos não indexados sejam opcionais; a presença de
// link é garantida na gravação e na leitura pelo validator.
func PostsV1() *SchemaDefinition {
	return &SchemaDefinition{
		Version:      "v1",
		SortingField: "published_at",
		Fields: []api.Field{
			{Name: "path", Type: "string", Facet: BoolPtr(false)},
			{Name: "title", Type: "string", Facet: BoolPtr(false)},
			{Name: "excerpt", Type: "string", Facet: BoolPtr(false), Index: BoolPtr(false), Optional: BoolPtr(true)},
			{Name: "content", Type: "string", Facet: BoolPtr(false), Index: BoolPtr(false), Optional: BoolPtr(true)},
			{Name: "link", Type: "string", Facet: BoolPtr(false), Index: BoolPtr(false), Optional: BoolPtr(true)},
			{Name: "date_gmt", Type: "string", Facet: BoolPtr(false), Index: BoolPtr(false), Optional: BoolPtr(true)},
			{Name: "modified_gmt", Type: "string", Facet: BoolPtr(false), Index: BoolPtr(false), Optional: BoolPtr(true)},
			{Name: "author_name", Type: "string", Facet: BoolPtr(true), Optional: BoolPtr(true)},
			{Name: "image_url", Type: "string", Facet: BoolPtr(false), Index: BoolPtr(false), Optional: BoolPtr(true)},
			{Name: "image_alt", Type: "string", Facet: BoolPtr(false), Index: BoolPtr(false), Optional: BoolPtr(true)},
			{Name: "published_at", Type: "int64", Facet: BoolPtr(false)},
		},
	}
}
