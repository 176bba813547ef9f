package projects

import "uattracker/models"

// ProjectInput is the editable part of a project.
type ProjectInput struct {
	Name        string `json:"name"`
	TestVersion string `json:"testVersion"`
	Month       string `json:"month"`
}

func (in ProjectInput) toProject(id string) models.Project {
	return models.Project{ID: id, Name: in.Name, TestVersion: in.TestVersion, Month: in.Month}
}
