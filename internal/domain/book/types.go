package book

type CopyStatus string

const (
	CopyAvailable   CopyStatus = "available"
	CopyBorrowed    CopyStatus = "borrowed"
	CopyReserved    CopyStatus = "reserved"
	CopyMaintenance CopyStatus = "maintenance"
)

func (s CopyStatus) String() string {
	return string(s)
}

func (s CopyStatus) IsValid() bool {
	switch s {
	case CopyAvailable, CopyBorrowed, CopyReserved, CopyMaintenance:
		return true
	default:
		return false
	}
}

type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionGood Condition = "good"
	ConditionFair Condition = "fair"
	ConditionPoor Condition = "poor"
)

func (c Condition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	default:
		return false
	}
}
