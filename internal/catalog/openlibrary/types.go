package openlibrary

type searchResponse struct {
	Docs []searchDoc `json:"docs" validate:"dive"`
}

type searchDoc struct {
	Key              string   `json:"key" validate:"required,startswith=/works/"`
	Title            string   `json:"title" validate:"required"`
	AuthorName       []string `json:"author_name"`
	AuthorKey        []string `json:"author_key"`
	FirstPublishYear *int     `json:"first_publish_year"`
	CoverI           *int     `json:"cover_i"`
}

type rawWork struct {
	Key    string `json:"key" validate:"required,startswith=/works/"`
	Title  string `json:"title" validate:"required"`
	Covers []int  `json:"covers"`
	// FirstPublishDate is free text: "1974", "May 1974", "1974-05-01".
	FirstPublishDate string          `json:"first_publish_date"`
	Authors          []rawWorkAuthor `json:"authors" validate:"dive"`
}

type rawWorkAuthor struct {
	Author struct {
		Key string `json:"key" validate:"required,startswith=/authors/"`
	} `json:"author"`
}

type rawAuthor struct {
	Key  string `json:"key" validate:"required"`
	Name string `json:"name" validate:"required"`
}
