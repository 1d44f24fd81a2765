package htb

import "github.com/bft-labs/htbctl/internal/domain"

// Wire types for the provisioning API. Responses wrap their payload in an
// "info" envelope; mutations answer with a bare "message".

type listResponse struct {
	Info []machineInfo `json:"info"`
}

type profileResponse struct {
	Info machineInfo `json:"info"`
}

type activeResponse struct {
	Info *activeInfo `json:"info"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type machineInfo struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	OS             string      `json:"os"`
	Points         int         `json:"points"`
	ReleaseDate    string      `json:"release"`
	UserOwns       int         `json:"user_owns_count"`
	RootOwns       int         `json:"root_owns_count"`
	UserOwned      bool        `json:"authUserInUserOwns"`
	RootOwned      bool        `json:"authUserInRootOwns"`
	Reviewed       bool        `json:"authUserHasReviewed"`
	Stars          float64     `json:"stars"`
	Avatar         string      `json:"avatar"`
	DifficultyText string      `json:"difficultyText"`
	Free           bool        `json:"free"`
	AuthorIDs      []int       `json:"author_ids"`
	Active         bool        `json:"active"`
	Retired        bool        `json:"retired"`
	UserOwnTime    string      `json:"authUserFirstUserTime"`
	RootOwnTime    string      `json:"authUserFirstRootTime"`
	Ratings        ratingsInfo `json:"feedbackForChart"`
	UserBlood      bloodInfo   `json:"userBlood"`
	RootBlood      bloodInfo   `json:"rootBlood"`
}

type activeInfo struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	OS      string     `json:"os"`
	IP      string     `json:"ip"`
	Retired bool       `json:"retired"`
	Tier    string     `json:"difficultyText"`
	Server  serverInfo `json:"server"`
}

type serverInfo struct {
	ID             int    `json:"id"`
	FriendlyName   string `json:"friendly_name"`
	CurrentClients int    `json:"current_clients"`
	Location       string `json:"location"`
}

type ratingsInfo struct {
	Cake      int `json:"counterCake"`
	VeryEasy  int `json:"counterVeryEasy"`
	Easy      int `json:"counterEasy"`
	TooEasy   int `json:"counterTooEasy"`
	Medium    int `json:"counterMedium"`
	BitHard   int `json:"counterBitHard"`
	Hard      int `json:"counterHard"`
	TooHard   int `json:"counterTooHard"`
	ExHard    int `json:"counterExHard"`
	BrainFuck int `json:"counterBrainFuck"`
}

type bloodInfo struct {
	ID    int    `json:"id"`
	Blood string `json:"blood"`
	Date  string `json:"date"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

func (m machineInfo) toRef() domain.MachineRef {
	return domain.MachineRef{
		ID:         m.ID,
		Name:       m.Name,
		OS:         m.OS,
		Difficulty: m.DifficultyText,
		Retired:    m.Retired,
	}
}

func (m machineInfo) toDetails() domain.MachineDetails {
	return domain.MachineDetails{
		Ref:         m.toRef(),
		Points:      m.Points,
		ReleaseDate: m.ReleaseDate,
		UserOwns:    m.UserOwns,
		RootOwns:    m.RootOwns,
		UserOwned:   m.UserOwned,
		RootOwned:   m.RootOwned,
		Reviewed:    m.Reviewed,
		Stars:       m.Stars,
		Avatar:      m.Avatar,
		Free:        m.Free,
		AuthorIDs:   m.AuthorIDs,
		Active:      m.Active,
		UserOwnTime: m.UserOwnTime,
		RootOwnTime: m.RootOwnTime,
		Ratings: domain.RatingHistogram{
			Cake:      m.Ratings.Cake,
			VeryEasy:  m.Ratings.VeryEasy,
			Easy:      m.Ratings.Easy,
			TooEasy:   m.Ratings.TooEasy,
			Medium:    m.Ratings.Medium,
			BitHard:   m.Ratings.BitHard,
			Hard:      m.Ratings.Hard,
			TooHard:   m.Ratings.TooHard,
			ExHard:    m.Ratings.ExHard,
			BrainFuck: m.Ratings.BrainFuck,
		},
		UserBlood: domain.BloodRecord(m.UserBlood),
		RootBlood: domain.BloodRecord(m.RootBlood),
	}
}

func (a activeInfo) toActive() domain.ActiveMachine {
	return domain.ActiveMachine{
		Ref: domain.MachineRef{
			ID:         a.ID,
			Name:       a.Name,
			OS:         a.OS,
			Difficulty: a.Tier,
			Retired:    a.Retired,
		},
		Address: a.IP,
		Server:  domain.Server(a.Server),
	}
}
