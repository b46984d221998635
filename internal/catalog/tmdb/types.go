package tmdb

// Raw response shapes. Struct tags are checked after decoding; a response
// that fails them is rejected as a whole.

type movieSearchPage struct {
	Results []movieSearchItem `json:"results" validate:"dive"`
}

type movieSearchItem struct {
	ID          int     `json:"id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  *string `json:"poster_path"`
}

type showSearchPage struct {
	Results []showSearchItem `json:"results" validate:"dive"`
}

type showSearchItem struct {
	ID           int     `json:"id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   *string `json:"poster_path"`
}

type rawMovie struct {
	ID          int     `json:"id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  *string `json:"poster_path"`
	Runtime     *int    `json:"runtime" validate:"omitempty,gte=0"`
	Credits     struct {
		Crew []CrewMember `json:"crew" validate:"dive"`
	} `json:"credits"`
}

// CrewMember is one crew credit on a movie.
type CrewMember struct {
	ID   int    `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	Job  string `json:"job"`
}

type rawShow struct {
	ID           int          `json:"id" validate:"required"`
	Name         string       `json:"name" validate:"required"`
	FirstAirDate string       `json:"first_air_date"`
	PosterPath   *string      `json:"poster_path"`
	Networks     []rawCompany `json:"networks" validate:"dive"`
	Seasons      []rawSeason  `json:"seasons" validate:"dive"`
}

type rawCompany struct {
	ID   int    `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type rawSeason struct {
	ID           int     `json:"id" validate:"required"`
	Name         string  `json:"name"`
	SeasonNumber int     `json:"season_number" validate:"gte=0"`
	AirDate      *string `json:"air_date"`
	EpisodeCount int     `json:"episode_count" validate:"gte=0"`
	PosterPath   *string `json:"poster_path"`
}
