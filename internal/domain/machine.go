package domain

// MachineRef identifies a catalog entry. A ref is produced by a name or id
// query, used for at most one operation, and discarded.
type MachineRef struct {
	// ID is the numeric catalog identifier.
	ID int

	// Name is the display name (e.g., "Lame").
	Name string

	// OS is the operating system label.
	OS string

	// Difficulty is the difficulty tier (e.g., "Easy").
	Difficulty string

	// Retired reports whether the machine has left the active catalog.
	Retired bool
}

// ActiveMachine is the account-wide active instance slot. At most one exists
// at any time; the upstream enforces that invariant and this type only
// observes it. The slot is shared with other actors, so a value is valid for
// a single observation and must be re-queried rather than cached.
type ActiveMachine struct {
	// Ref is the underlying catalog entry.
	Ref MachineRef

	// Address is the assigned network address, empty until provisioning
	// completes. A reset replaces it with a new one.
	Address string

	// Server describes the lab server hosting the instance.
	Server Server
}

// HasAddress reports whether provisioning has assigned a network address.
func (m *ActiveMachine) HasAddress() bool {
	return m != nil && m.Address != ""
}

// Server describes the lab server an instance runs on.
type Server struct {
	ID             int
	FriendlyName   string
	CurrentClients int
	Location       string
}

// RatingHistogram is the per-bucket count of user difficulty ratings.
type RatingHistogram struct {
	Cake      int
	VeryEasy  int
	Easy      int
	TooEasy   int
	Medium    int
	BitHard   int
	Hard      int
	TooHard   int
	ExHard    int
	BrainFuck int
}

// BloodRecord identifies a first-completion claim on a machine.
type BloodRecord struct {
	ID    int
	Blood string
	Date  string
	Name  string
	Type  string
}

// MachineDetails is the full catalog descriptor for a machine.
type MachineDetails struct {
	Ref MachineRef

	Points      int
	ReleaseDate string
	UserOwns    int
	RootOwns    int
	UserOwned   bool
	RootOwned   bool
	Reviewed    bool
	Stars       float64
	Avatar      string
	Free        bool
	AuthorIDs   []int
	Active      bool
	UserOwnTime string
	RootOwnTime string

	Ratings   RatingHistogram
	UserBlood BloodRecord
	RootBlood BloodRecord
}

// Descriptor pairs the active instance slot with the full catalog details
// of the machine occupying it.
type Descriptor struct {
	Active  ActiveMachine
	Details MachineDetails
}
