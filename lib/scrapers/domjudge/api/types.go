package api

// Records mirror the field names the DOMjudge v4 API returns, so
// exports line up with what staff see in the jury interface.

type User struct {
	Id             string   `json:"id"`
	Username       string   `json:"username"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Roles          []string `json:"roles"`
	TeamId         string   `json:"team_id"`
	Team           string   `json:"team"`
	Enabled        bool     `json:"enabled"`
	LastLoginTime  string   `json:"last_login_time"`
	FirstLoginTime string   `json:"first_login_time"`
	LastIp         string   `json:"last_ip"`
	Ip             string   `json:"ip"`
}

type Team struct {
	Id             string   `json:"id"`
	IcpcId         string   `json:"icpc_id"`
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	GroupIds       []string `json:"group_ids"`
	Affiliation    string   `json:"affiliation"`
	Nationality    string   `json:"nationality"`
	OrganizationId string   `json:"organization_id"`
	Members        string   `json:"members"`
}

type Problem struct {
	Ordinal       int     `json:"ordinal"`
	Id            string  `json:"id"`
	ShortName     string  `json:"short_name"`
	Label         string  `json:"label"`
	TimeLimit     float64 `json:"time_limit"`
	ExternalId    string  `json:"externalid"`
	Name          string  `json:"name"`
	Rgb           string  `json:"rgb"`
	Color         string  `json:"color"`
	TestDataCount int     `json:"test_data_count"`
}

type SubmissionFileRef struct {
	Href string `json:"href"`
	Mime string `json:"mime"`
}

type Submission struct {
	Id          string              `json:"id"`
	LanguageId  string              `json:"language_id"`
	ProblemId   string              `json:"problem_id"`
	TeamId      string              `json:"team_id"`
	Time        string              `json:"time"`
	ContestTime string              `json:"contest_time"`
	EntryPoint  string              `json:"entry_point"`
	ExternalId  string              `json:"externalid"`
	Files       []SubmissionFileRef `json:"files"`
}

type SubmissionFile struct {
	Id           string `json:"id"`
	SubmissionId string `json:"submission_id"`
	Filename     string `json:"filename"`
	Source       string `json:"source"`
}
