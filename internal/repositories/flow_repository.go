package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"cipherhaven/internal/models"
)

const (
	flowKeyPrefix     = "cipherhaven:signup:flow:"
	flowLockKeyPrefix = "cipherhaven:signup:lock:"
	defaultFlowTTL    = time.Hour
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// FlowRepository keeps sign-up flows and their in-flight locks.
type FlowRepository interface {
	Save(ctx context.Context, flow *models.SignUpFlow) error
	Get(ctx context.Context, id string) (*models.SignUpFlow, error)
	// AcquireLock returns ok=false when another request already holds the flow.
	AcquireLock(ctx context.Context, id string, ttl time.Duration) (release func(), ok bool, err error)
}

type flowRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFlowRepository(client *redis.Client, ttl time.Duration) FlowRepository {
	if ttl <= 0 {
		ttl = defaultFlowTTL
	}
	return &flowRepository{client: client, ttl: ttl}
}

func (r *flowRepository) Save(ctx context.Context, flow *models.SignUpFlow) error {
	data, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("signup_flow marshal: %w", err)
	}
	if err := r.client.Set(ctx, flowKeyPrefix+flow.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("signup_flow save: %w", err)
	}
	return nil
}

// Get returns nil, nil when the flow does not exist or expired.
func (r *flowRepository) Get(ctx context.Context, id string) (*models.SignUpFlow, error) {
	data, err := r.client.Get(ctx, flowKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("signup_flow get: %w", err)
	}
	var flow models.SignUpFlow
	if err := json.Unmarshal(data, &flow); err != nil {
		return nil, fmt.Errorf("signup_flow unmarshal: %w", err)
	}
	return &flow, nil
}

func (r *flowRepository) AcquireLock(ctx context.Context, id string, ttl time.Duration) (func(), bool, error) {
	key := flowLockKeyPrefix + id
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("signup_flow lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		// request context may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, r.client, []string{key}, token).Err()
	}
	return release, true, nil
}
