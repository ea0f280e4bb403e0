package simulation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Commands understood by the WorldActor when sent as a StringValue.
const (
	CommandReseed = "reseed" // recreate the initial grid and restart the clock
	CommandStats  = "stats"  // reply with the current FlockStats as a Struct
)

// NewTick builds the message advancing the world by dt.
func NewTick(dt time.Duration) *durationpb.Duration {
	return durationpb.New(dt)
}

// NewCommand builds a command message.
func NewCommand(name string) *wrapperspb.StringValue {
	return wrapperspb.String(name)
}

// RulesToStruct encodes a rule table with its JSON field names.
func RulesToStruct(r flock.Rules) (*structpb.Struct, error) {
	return toStruct(r)
}

// ApplyRules overlays the fields present in update onto base.
// Fields missing from update keep the base value.
func ApplyRules(base flock.Rules, update *structpb.Struct) (flock.Rules, error) {
	b, err := json.Marshal(update.AsMap())
	if err != nil {
		return base, fmt.Errorf("failed to encode rule update: %w", err)
	}
	next := base
	if err := json.Unmarshal(b, &next); err != nil {
		return base, fmt.Errorf("failed to apply rule update: %w", err)
	}
	return next, nil
}

// StatsToStruct encodes flock statistics for an Ask reply.
func StatsToStruct(s FlockStats) (*structpb.Struct, error) {
	return toStruct(s)
}

// StatsFromStruct decodes a reply built by StatsToStruct.
func StatsFromStruct(s *structpb.Struct) (FlockStats, error) {
	var out FlockStats
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return out, fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("failed to decode stats: %w", err)
	}
	return out, nil
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}
