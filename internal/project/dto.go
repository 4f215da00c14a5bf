package project

type CreateProjectDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateProjectDTO struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Status      *ProjectStatus `json:"status"`
}
