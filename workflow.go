package getwvkeys

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

type State int

const (
	StateStart State = iota
	StateChallengeObtained
	StateCacheHit
	StateLicenseObtained
	StateDecrypted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateChallengeObtained:
		return "challenge-obtained"
	case StateCacheHit:
		return "cache-hit"
	case StateLicenseObtained:
		return "license-obtained"
	case StateDecrypted:
		return "decrypted"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is what a Run reached. On error State is StateFailed and nothing
// else is reported.
type Outcome struct {
	State     State
	Keys      []string
	SessionID string
	Cached    bool
}

// Workflow runs the challenge, license and decrypt exchange.
type Workflow struct {
	keys    KeyService
	license LicenseForwarder
	out     Reporter
	log     *zap.Logger
}

// NewWorkflow creates a new Workflow. Only WithLogger is meaningful here.
func NewWorkflow(keys KeyService, license LicenseForwarder, out Reporter, opts ...Option) *Workflow {
	if keys == nil || license == nil || out == nil {
		panic("workflow collaborators cannot be nil")
	}
	o := newOptions(0, opts)

	return &Workflow{
		keys:    keys,
		license: license,
		out:     out,
		log:     o.log,
	}
}

// Run performs at most three calls: the challenge request, the license
// request and the decrypt request. A cached answer ends the run after the
// first one, and any error ends it immediately.
func (w *Workflow) Run(ctx context.Context, p Params) (*Outcome, error) {
	if err := p.Validate(); err != nil {
		return &Outcome{State: StateFailed}, err
	}

	if p.Verbose {
		w.out.Successf("Generating License Request")
		w.describePSSH(p.PSSH)
	}

	resp, err := w.keys.GenerateChallenge(ctx, p)
	if err != nil {
		return w.fail(StateStart, err)
	}

	if resp.Cached != nil {
		w.printKeys("Keys (from cache):", resp.Cached.Keys)
		return &Outcome{State: StateCacheHit, Keys: resp.Cached.Keys, Cached: true}, nil
	}
	if resp.Challenge == nil {
		return w.fail(StateStart, &ProtocolError{Op: opGenerate, Reason: "response has neither keys nor a challenge"})
	}

	challenge := resp.Challenge
	w.log.Debug("challenge obtained", zap.String("session_id", challenge.SessionID), zap.Int("bytes", len(challenge.Data)))
	if p.Verbose {
		w.out.Successf("License Request Generated")
		w.out.Println(base64.StdEncoding.EncodeToString(challenge.Data))
		w.out.Successf("Session ID: %s", challenge.SessionID)
		w.describeMessage("License request", challenge.Data)
		w.out.Successf("Sending License URL Request")
	}

	license, err := w.license.Forward(ctx, p.LicenseURL, challenge.Data, p.LicenseHeaders())
	if err != nil {
		return w.fail(StateChallengeObtained, err)
	}

	// raw license bytes can break terminals, only the base64 form is printed
	encoded := base64.StdEncoding.EncodeToString(license)
	w.log.Debug("license obtained", zap.Int("bytes", len(license)))
	if p.Verbose {
		w.out.Successf("License response:")
		w.out.Println(encoded)
		w.describeMessage("License response", license)
		w.out.Successf("Decrypting with License Request and Response")
	}

	res, err := w.keys.Decrypt(ctx, challenge.SessionID, encoded, p)
	if err != nil {
		return w.fail(StateLicenseObtained, err)
	}

	if p.Verbose {
		if len(res.Raw) > 0 {
			w.out.Println(string(pretty.Pretty(res.Raw)))
		}
		w.out.Successf("Decryption Session ID: %s", res.SessionID)
	}
	w.printKeys("Keys:", res.Keys)

	return &Outcome{State: StateDecrypted, Keys: res.Keys, SessionID: res.SessionID}, nil
}

func (w *Workflow) fail(from State, err error) (*Outcome, error) {
	w.log.Debug("workflow failed", zap.Stringer("state", from), zap.Error(err))
	return &Outcome{State: StateFailed}, err
}

func (w *Workflow) printKeys(title string, keys []string) {
	w.out.Println()
	w.out.Successf("%s", title)
	for _, k := range keys {
		w.out.Println("--key " + k)
	}
}

func (w *Workflow) describePSSH(s string) {
	pssh, err := ParsePSSH(s)
	if err != nil {
		w.log.Warn("pssh is not a widevine pssh box, sending it as is", zap.Error(err))
		return
	}

	w.out.Successf("PSSH: version %d, %d key id(s), provider %q", pssh.Version(), len(pssh.KeyIDs()), pssh.Data().Provider)
	for _, kid := range pssh.KeyIDs() {
		w.out.Println("    kid " + kid)
	}
}

func (w *Workflow) describeMessage(what string, b []byte) {
	msg, err := ParseSignedMessage(b)
	if err != nil {
		w.log.Debug("not a signed message", zap.String("what", what), zap.Error(err))
		return
	}
	w.out.Successf("%s: %s (%d bytes)", what, msg.Type, len(b))
}
