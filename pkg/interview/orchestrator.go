package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/vocahire/vocahire/pkg/llm"
	"github.com/vocahire/vocahire/pkg/protocol"
	"github.com/vocahire/vocahire/pkg/session"
	"github.com/vocahire/vocahire/pkg/stt"
	"github.com/vocahire/vocahire/pkg/tts"
)

// State is the orchestrator's position in the interview lifecycle.
type State int

const (
	// StateGreeting is the opening AI turn before any candidate input.
	StateGreeting State = iota

	// StateAITurn streams an interviewer response to the candidate.
	StateAITurn

	// StateCandidateTurn ingests and transcribes candidate audio.
	StateCandidateTurn

	// StateEnding delivers the termination notice and marks the session ended.
	StateEnding

	// StateEnded is terminal.
	StateEnded
)

// String implements fmt.Stringer for logging.
func (s State) String() string {
	switch s {
	case StateGreeting:
		return "greeting"
	case StateAITurn:
		return "ai_turn"
	case StateCandidateTurn:
		return "candidate_turn"
	case StateEnding:
		return "ending"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const noAudioNotice = "It seems I am not receiving any audio. Let's end the interview here."

// Orchestrator drives one interview session: it alternates AI and candidate
// turns over a single transport until the interviewer concludes, the
// candidate ends the interview, the transport drops, or a collaborator fails.
type Orchestrator struct {
	sessionID   string
	transport   Transport
	registry    *session.Registry
	transcriber stt.Provider
	generator   llm.Generator
	speaker     tts.Provider

	cfg    *Config
	logger *slog.Logger

	state        State
	emptyTurns   int
	disconnected bool
}

// New creates an orchestrator for one session.
func New(
	sessionID string,
	transport Transport,
	registry *session.Registry,
	transcriber stt.Provider,
	generator llm.Generator,
	speaker tts.Provider,
	opts ...Option,
) *Orchestrator {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	return &Orchestrator{
		sessionID:   sessionID,
		transport:   transport,
		registry:    registry,
		transcriber: transcriber,
		generator:   generator,
		speaker:     speaker,
		cfg:         cfg,
		logger:      cfg.Logger.With("component", "interview.orchestrator", "session_id", sessionID),
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Run executes the interview until it reaches StateEnded or a collaborator
// fails. Transport loss at any point is a graceful ending, not an error. On
// collaborator failure Run closes the transport with an abnormal status code,
// marks the session ended, and returns the failure.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.registry.Create(o.sessionID)
	o.logger.Info("interview started")

	input := ""
	for {
		o.logger.Debug("state transition", "state", o.state.String())
		switch o.state {
		case StateGreeting, StateAITurn:
			next, err := o.aiTurn(ctx, input)
			if err != nil {
				return o.fail(err)
			}
			o.state = next
			input = ""
		case StateCandidateTurn:
			text, next, err := o.candidateTurn(ctx)
			if err != nil {
				return o.fail(err)
			}
			o.state = next
			input = text
		case StateEnding:
			o.finish()
			o.state = StateEnded
		case StateEnded:
			o.logger.Info("interview finished", "disconnected", o.disconnected)
			return nil
		}
	}
}

// aiTurn generates one interviewer response and speaks it. Two flows run
// concurrently under the turn: the generator feeding text into the bridge,
// and the bridge synthesizing audio; this goroutine drains the audio to the
// transport. Both flows are joined before the turn closes, so no chunk of a
// finished turn can arrive after the turn's notice.
func (o *Orchestrator) aiTurn(ctx context.Context, input string) (State, error) {
	history, err := o.history()
	if err != nil {
		return 0, err
	}

	stream, err := o.generator.Generate(ctx, input, history)
	if err != nil {
		return 0, &CollaboratorError{Stage: "generate", Err: err}
	}
	defer stream.Close()

	turnCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bridge := NewBridge(o.speaker, o.cfg)

	var (
		wg         sync.WaitGroup
		text       strings.Builder
		produceErr error
		bridgeErr  error
		bridgeDone = make(chan struct{})
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer bridge.CloseText()
		for {
			chunk, err := stream.Recv()
			if err != nil {
				produceErr = err
				return
			}
			if chunk.Delta != "" {
				text.WriteString(chunk.Delta)
				select {
				case bridge.TextIn() <- chunk.Delta:
				case <-turnCtx.Done():
					return
				}
			}
			if chunk.Done {
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		defer close(bridgeDone)
		bridgeErr = bridge.Run(turnCtx)
	}()

	// Drain audio to the transport. A write failure means the candidate is
	// gone: cancel both flows, but keep draining so the bridge can finish.
	var writeErr error
	for chunk := range bridge.AudioOut() {
		if writeErr != nil {
			continue
		}
		if err := o.transport.WriteBinary(chunk); err != nil {
			writeErr = err
			cancel()
		}
	}
	<-bridgeDone
	if bridgeErr != nil || writeErr != nil {
		// The producer may be blocked on a full text channel or inside a
		// stalled Recv; cancelling and closing the stream unblocks both.
		cancel()
		stream.Close()
	}
	wg.Wait()

	if writeErr != nil {
		o.logger.Warn("transport lost during response", "error", writeErr)
		o.disconnected = true
		return StateEnding, nil
	}
	aborted := false
	if bridgeErr != nil {
		switch {
		case errors.Is(bridgeErr, ErrStallTimeout):
			// Queued audio was already delivered; close the turn with what
			// the candidate heard so far.
			o.logger.Warn("synthesis stalled, closing turn early")
			aborted = true
		case errors.Is(bridgeErr, context.Canceled):
			aborted = true
		default:
			return 0, &CollaboratorError{Stage: "synthesize", Err: bridgeErr}
		}
	}
	if produceErr != nil && !aborted && !errors.Is(produceErr, context.Canceled) {
		return 0, &CollaboratorError{Stage: "generate", Err: produceErr}
	}

	full := strings.TrimSpace(text.String())
	if err := o.registry.AppendTurn(o.sessionID, session.SpeakerAI, full); err != nil {
		return 0, err
	}
	if err := o.transport.WriteText(protocol.AISays(full)); err != nil {
		o.disconnected = true
		return StateEnding, nil
	}

	if strings.Contains(strings.ToLower(full), o.cfg.ConclusionPhrase) {
		o.logger.Info("interviewer concluded")
		return StateEnding, nil
	}
	return StateCandidateTurn, nil
}

// candidateTurn ingests one utterance, streams it through transcription, and
// returns the final transcript text with the next state.
func (o *Orchestrator) candidateTurn(ctx context.Context) (string, State, error) {
	ing := NewIngestor(o.transport, o.cfg.Logger)
	chunks := ing.Chunks(ctx)

	stream, err := o.transcriber.Stream(ctx)
	if err != nil {
		return "", 0, &CollaboratorError{Stage: "transcribe", Err: err}
	}
	defer stream.Close()

	feedDone := make(chan error, 1)
	go func() {
		for c := range chunks {
			if err := stream.Send(c.Data); err != nil {
				feedDone <- err
				for range chunks {
				}
				return
			}
		}
		feedDone <- stream.CloseSend()
	}()

	var finals []string
	for {
		res, err := stream.Recv()
		if err != nil {
			return "", 0, &CollaboratorError{Stage: "transcribe", Err: err}
		}
		if res == nil {
			break
		}
		o.notify(protocol.PartialTranscript(res.Text, res.Final))
		if res.Final && strings.TrimSpace(res.Text) != "" {
			finals = append(finals, strings.TrimSpace(res.Text))
		}
	}
	if err := <-feedDone; err != nil {
		return "", 0, &CollaboratorError{Stage: "transcribe", Err: err}
	}

	text := strings.TrimSpace(strings.Join(finals, " "))

	// Transport loss ends the session without further collaborator calls.
	if ing.Disconnected() || o.disconnected {
		o.disconnected = true
		return "", StateEnding, nil
	}

	// An explicit end request wins over whatever was transcribed and over
	// the empty-turn counter.
	if ing.EndInterview() {
		o.logger.Info("candidate ended interview")
		return "", StateEnding, nil
	}

	if text == "" {
		o.emptyTurns++
		o.logger.Debug("empty candidate turn", "consecutive", o.emptyTurns)
		if o.emptyTurns >= o.cfg.MaxEmptyTurns {
			o.notify(protocol.AISays(noAudioNotice))
			return "", StateEnding, nil
		}
		return "", StateAITurn, nil
	}

	o.emptyTurns = 0
	if err := o.registry.AppendTurn(o.sessionID, session.SpeakerCandidate, text); err != nil {
		return "", 0, err
	}
	o.notify(protocol.CandidateSays(text))
	return text, StateAITurn, nil
}

// finish sends the termination notice and marks the session ended. When the
// transport is already gone the notice is skipped.
func (o *Orchestrator) finish() {
	if !o.disconnected {
		if err := o.transport.WriteText(protocol.InterviewEndedByAI); err != nil {
			o.logger.Debug("termination notice not delivered", "error", err)
			o.disconnected = true
		}
	}
	o.registry.MarkEnded(o.sessionID)
}

// fail ends the session after a collaborator failure: the candidate gets an
// abnormal close, the session is marked ended so it can still be summarized.
func (o *Orchestrator) fail(err error) error {
	o.logger.Error("interview failed", "state", o.state.String(), "error", err)
	if !o.disconnected {
		if cerr := o.transport.Close(protocol.CloseInternalError, "internal error"); cerr != nil {
			o.logger.Debug("abnormal close not delivered", "error", cerr)
		}
	}
	o.registry.MarkEnded(o.sessionID)
	return err
}

// notify sends a text notice, treating failure as a disconnect.
func (o *Orchestrator) notify(text string) {
	if o.disconnected {
		return
	}
	if err := o.transport.WriteText(text); err != nil {
		o.logger.Warn("notice not delivered", "error", err)
		o.disconnected = true
	}
}

// history converts the stored transcript into generator messages.
func (o *Orchestrator) history() ([]llm.Message, error) {
	turns, err := o.registry.Transcript(o.sessionID)
	if err != nil {
		return nil, err
	}
	msgs := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Speaker {
		case session.SpeakerAI:
			msgs = append(msgs, llm.NewAssistantMessage(t.Text))
		case session.SpeakerCandidate:
			msgs = append(msgs, llm.NewUserMessage(t.Text))
		}
	}
	return msgs, nil
}
