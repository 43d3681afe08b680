package domain

type County struct {
	ID   int64
	Code string
	Name string
}

type Constituency struct {
	ID       int64
	CountyID int64
	Name     string
}

type Ward struct {
	ID             int64
	ConstituencyID int64
	Name           string
	Code           string
}

// WardLocation is a ward with its parents resolved.
type WardLocation struct {
	Ward         Ward
	Constituency Constituency
	County       County
}
