package render

import (
	"encoding/json"

	"github.com/bft-labs/htbctl/internal/domain"
)

// JSON shapes for the structured output mode. Key names are part of the
// output contract; scripts consume them.

type serverJSON struct {
	ID             int    `json:"id"`
	FriendlyName   string `json:"friendly_name"`
	CurrentClients int    `json:"current_clients"`
	Location       string `json:"location"`
}

type ratingsJSON struct {
	Cake      int `json:"Cake"`
	VeryEasy  int `json:"VeryEasy"`
	Easy      int `json:"Easy"`
	TooEasy   int `json:"TooEasy"`
	Medium    int `json:"Medium"`
	BitHard   int `json:"BitHard"`
	Hard      int `json:"Hard"`
	TooHard   int `json:"TooHard"`
	ExHard    int `json:"ExHard"`
	BrainFuck int `json:"BrainFuck"`
}

type bloodJSON struct {
	ID    int    `json:"id"`
	Blood string `json:"blood"`
	Date  string `json:"date"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

type machineJSON struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	OS          string      `json:"os"`
	Points      int         `json:"points"`
	ReleaseDate string      `json:"release_date"`
	UserOwns    int         `json:"user_owns"`
	RootOwns    int         `json:"root_owns"`
	UserOwned   bool        `json:"user_owned"`
	RootOwned   bool        `json:"root_owned"`
	Reviewed    bool        `json:"reviewed"`
	Stars       float64     `json:"stars"`
	Avatar      string      `json:"avatar"`
	Difficulty  string      `json:"difficulty"`
	Free        bool        `json:"free"`
	AuthorIDs   []int       `json:"author_ids"`
	Active      bool        `json:"active"`
	Retired     bool        `json:"retired"`
	UserOwnTime string      `json:"user_own_time"`
	RootOwnTime string      `json:"root_own_time"`
	Ratings     ratingsJSON `json:"difficulty_ratings"`
	UserBlood   bloodJSON   `json:"user_blood"`
	RootBlood   bloodJSON   `json:"root_blood"`
}

type descriptorJSON struct {
	IP      string      `json:"ip"`
	Server  serverJSON  `json:"server"`
	Machine machineJSON `json:"machine"`
}

type refJSON struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	OS         string `json:"os"`
	Difficulty string `json:"difficulty"`
	Retired    bool   `json:"retired"`
}

// DescriptorJSON renders the full nested descriptor with two-space
// indentation.
func DescriptorJSON(d *domain.Descriptor) (string, error) {
	out := descriptorJSON{
		IP:     d.Active.Address,
		Server: serverJSON(d.Active.Server),
		Machine: machineJSON{
			ID:          d.Details.Ref.ID,
			Name:        d.Details.Ref.Name,
			OS:          d.Details.Ref.OS,
			Points:      d.Details.Points,
			ReleaseDate: d.Details.ReleaseDate,
			UserOwns:    d.Details.UserOwns,
			RootOwns:    d.Details.RootOwns,
			UserOwned:   d.Details.UserOwned,
			RootOwned:   d.Details.RootOwned,
			Reviewed:    d.Details.Reviewed,
			Stars:       d.Details.Stars,
			Avatar:      d.Details.Avatar,
			Difficulty:  d.Details.Ref.Difficulty,
			Free:        d.Details.Free,
			AuthorIDs:   d.Details.AuthorIDs,
			Active:      d.Details.Active,
			Retired:     d.Details.Ref.Retired,
			UserOwnTime: d.Details.UserOwnTime,
			RootOwnTime: d.Details.RootOwnTime,
			Ratings:     ratingsJSON(d.Details.Ratings),
			UserBlood:   bloodJSON(d.Details.UserBlood),
			RootBlood:   bloodJSON(d.Details.RootBlood),
		},
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SearchJSON renders catalog entries as a JSON array.
func SearchJSON(refs []domain.MachineRef) (string, error) {
	out := make([]refJSON, len(refs))
	for i, ref := range refs {
		out[i] = refJSON(ref)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
