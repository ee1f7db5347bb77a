// Package protocol defines the WebSocket wire vocabulary for interview sessions.
// Binary frames carry raw audio in both directions; text frames carry the
// small fixed set of control and notice strings below.
package protocol

// Frame kinds, matching the RFC 6455 opcode values used by both
// gofiber/contrib/websocket and gorilla/websocket.
const (
	TextFrame   = 1
	BinaryFrame = 2
)

// Client → server control messages.
const (
	// EndOfStream signals the candidate finished speaking for this turn.
	EndOfStream = "END_OF_STREAM"

	// EndInterview aborts the whole session.
	EndInterview = "END_INTERVIEW"
)

// Server → client notices.
const (
	// InterviewEndedByAI is sent when the interviewer concludes the session.
	InterviewEndedByAI = "INTERVIEW_ENDED_BY_AI"

	sttPartPrefix       = "STT_part: "
	candidateSaysPrefix = "Candidate_says: "
	aiSaysPrefix        = "AI_says: "
	finalSuffix         = " (final)"
)

// WebSocket close codes.
const (
	// CloseNormal is used for client-initiated and clean terminations.
	CloseNormal = 1000

	// CloseInternalError is used when a fatal server-side error ends the session.
	CloseInternalError = 1011
)

// PartialTranscript formats a partial-transcript notice.
func PartialTranscript(text string, final bool) string {
	if final {
		return sttPartPrefix + text + finalSuffix
	}
	return sttPartPrefix + text
}

// CandidateSays formats the candidate-turn echo notice.
func CandidateSays(text string) string {
	return candidateSaysPrefix + text
}

// AISays formats the AI-turn echo notice.
func AISays(text string) string {
	return aiSaysPrefix + text
}
