package valueobjects

type AllocationStatus string

const (
	AllocationStatusPending   AllocationStatus = "pending"
	AllocationStatusCompleted AllocationStatus = "completed"
	// AllocationStatusAbandoned is terminal and releases the allocation's amount back to the donation.
	AllocationStatusAbandoned AllocationStatus = "abandoned"
)

func (s AllocationStatus) IsValid() bool {
	switch s {
	case AllocationStatusPending, AllocationStatusCompleted, AllocationStatusAbandoned:
		return true
	default:
		return false
	}
}

func (s AllocationStatus) IsPending() bool {
	return s == AllocationStatusPending
}

func (s AllocationStatus) IsCompleted() bool {
	return s == AllocationStatusCompleted
}

func (s AllocationStatus) IsAbandoned() bool {
	return s == AllocationStatusAbandoned
}

// ReservesCapacity reports whether the allocation counts against its donation's amount.
func (s AllocationStatus) ReservesCapacity() bool {
	return s == AllocationStatusPending || s == AllocationStatusCompleted
}

func (s AllocationStatus) String() string {
	return string(s)
}
