package web

import "fmt"

// Jury page paths. Templated paths take the entity id.
const (
	pathLogin           = "/login"
	pathJuryHome        = "/jury"
	pathTeamList        = "/jury/teams"
	pathTeamAdd         = "/jury/teams/add"
	pathTeamEdit        = "/jury/teams/%s/edit"
	pathUserList        = "/jury/users"
	pathUserEdit        = "/jury/users/%s/edit"
	pathAffiliationList = "/jury/affiliations"
	pathAffiliationAdd  = "/jury/affiliations/add"
	pathProblemList     = "/jury/problems"
)

func formatPath(template string, id string) string {
	return fmt.Sprintf(template, id)
}
