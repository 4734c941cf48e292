package response_models

type PlaceResponse struct {
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Rating   float32  `json:"rating"`
	PhotoURL string   `json:"photo_url,omitempty"`
	Types    []string `json:"types"`
	Cached   bool     `json:"cached"`
}

type PlacePhoto struct {
	ContentType string
	Data        []byte
}
