package models

// Allowed status transitions, one table per entity. Services consult these
// instead of re-deriving validity at every call site.

var shiftTransitions = map[ShiftStatus][]ShiftStatus{
	ShiftStatusPreparing:        {ShiftStatusStarted, ShiftStatusCancelled},
	ShiftStatusStarted:          {ShiftStatusReadyForComplete, ShiftStatusCancelled},
	ShiftStatusReadyForComplete: {ShiftStatusFinished},
}

var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusWaiting: {
		ReportStatusReviewing,
		ReportStatusSkipped,
		ReportStatusNotParticipate,
	},
	ReportStatusReviewing: {
		ReportStatusReviewing, // resubmission replaces the photo
		ReportStatusApproved,
		ReportStatusDeclined,
		ReportStatusNotParticipate,
	},
}

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending: {RequestStatusApproved, RequestStatusDeclined},
}

func transition[S ~string](entity string, table map[S][]S, from, to S) error {
	for _, allowed := range table[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: entity, From: string(from), To: string(to)}
}

func (s ShiftStatus) Transition(to ShiftStatus) error {
	return transition("shift", shiftTransitions, s, to)
}

func (s ReportStatus) Transition(to ReportStatus) error {
	return transition("report", reportTransitions, s, to)
}

func (s RequestStatus) Transition(to RequestStatus) error {
	return transition("request", requestTransitions, s, to)
}
