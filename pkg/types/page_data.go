package types

type NavbarData struct {
	IsAdmin       bool
	AdminEmail    string
	AdminFullName string
}

type NavbarDataSetter interface {
	SetNavbarData(data NavbarData)
}

type BasePageData struct {
	Title  string
	Navbar NavbarData
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

type HomePageData struct {
	BasePageData
	Notice string
	Error  string
	Forms  []FormSpec
}

type RequestFormPageData struct {
	BasePageData
	Spec        FormSpec
	Zones       []*Zone
	Form        RequestForm
	BirthDate   string
	Verified    *DocumentRequest
	Error       string
	Notice      string
	FieldErrors map[string]string
}

type RequestSubmittedPageData struct {
	BasePageData
	Spec    FormSpec
	Request *DocumentRequest
}

// TrackedRequest is a request as shown on the tracking page.
type TrackedRequest struct {
	Request  *DocumentRequest
	ZoneName string
}

type TrackPageData struct {
	BasePageData
	Reference string
	Searched  bool
	Results   []TrackedRequest
	Error     string
}

type AdminLoginPageData struct {
	BasePageData
	Email string
	Error string
}

type DashboardRow struct {
	Request  *DocumentRequest
	ZoneName string
}

type AdminDashboardPageData struct {
	BasePageData
	Counts   StatusCounts
	Rows     []DashboardRow
	Status   string
	Search   string
	Statuses []RequestStatus
	Notice   string
	Error    string
}

// RequestDetail is everything the admin detail view renders for one request.
type RequestDetail struct {
	Request       *DocumentRequest
	Zone          *Zone
	ZoneClearance *DocumentRequest
	ProofFile     *StoredFile
	ValidIDFile   *StoredFile
	Events        []*RequestEvent
}

type AdminRequestPageData struct {
	BasePageData
	Detail *RequestDetail
	Notice string
	Error  string
}

type ErrorPageData struct {
	BasePageData
	Status  int
	Message string
}
