package handler

type programRequest struct {
	Name string `json:"name"`
}

type programPatchRequest struct {
	Name *string `json:"name"`
}

type programResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
