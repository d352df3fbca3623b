package getwvkeys

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=./workflow_mock.go -package=getwvkeys

type KeyService interface {
	GenerateChallenge(ctx context.Context, p Params) (*ChallengeResponse, error)
	Decrypt(ctx context.Context, sessionID, license string, p Params) (*DecryptResult, error)
}

type LicenseForwarder interface {
	Forward(ctx context.Context, url string, challenge []byte, headers map[string]string) ([]byte, error)
}

// Reporter receives console output of the workflow.
type Reporter interface {
	Successf(format string, args ...any)
	Println(args ...any)
}
