package hcloud

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/slipway/internal/util/retry"
)

// CreateResult wraps a freshly created resource together with the
// actions that must complete before it is usable.
type CreateResult[T any] struct {
	Resource T
	Action   *hcloud.Action
	Actions  []*hcloud.Action
}

// DeleteOperation deletes a resource by name. Execute is idempotent: a
// resource that no longer exists counts as deleted. Locked resources
// are retried, everything else fails immediately.
type DeleteOperation[T any] struct {
	Name         string
	ResourceType string

	// Get retrieves the resource by name, nil if absent.
	Get func(ctx context.Context, name string) (T, *hcloud.Response, error)

	// Delete removes the resource.
	Delete func(ctx context.Context, resource T) (*hcloud.Response, error)
}

// Execute runs the delete with retry and the client's delete timeout.
func (op *DeleteOperation[T]) Execute(ctx context.Context, client *RealClient) error {
	ctx, cancel := context.WithTimeout(ctx, client.timeouts.Delete)
	defer cancel()

	return retry.Do(ctx, func() error {
		resource, _, err := op.Get(ctx, op.Name)
		if err != nil {
			return retry.Permanent(fmt.Errorf("get %s %q: %w", op.ResourceType, op.Name, err))
		}
		if reflect.ValueOf(resource).IsNil() {
			return nil
		}

		if _, err := op.Delete(ctx, resource); err != nil {
			if isResourceLocked(err) {
				return err
			}
			return retry.Permanent(err)
		}
		return nil
	},
		retry.Attempts(client.timeouts.RetryAttempts),
		retry.Delay(client.timeouts.RetryDelay))
}

// EnsureOperation implements get-or-create for a resource. When the
// resource already exists, Validate (if set) checks it against the
// desired state and Update (if set, together with UpdateOptsMapper)
// reconciles it. Otherwise the resource is created and its actions
// awaited.
//
//	fw, err := (&EnsureOperation[*hcloud.Firewall, hcloud.FirewallCreateOpts, hcloud.FirewallSetRulesOpts]{
//		Name:         name,
//		ResourceType: "firewall",
//		Get:          c.client.Firewall.Get,
//		Create:       ...,
//		Update:       ...,
//	}).Execute(ctx, c)
type EnsureOperation[T any, CreateOpts any, UpdateOpts any] struct {
	Name         string
	ResourceType string

	// Get retrieves the resource by name, nil if absent.
	Get func(ctx context.Context, name string) (T, *hcloud.Response, error)

	// Create creates the resource.
	Create func(ctx context.Context, opts CreateOpts) (*CreateResult[T], *hcloud.Response, error)

	// Update reconciles an existing resource (optional).
	Update func(ctx context.Context, resource T, opts UpdateOpts) ([]*hcloud.Action, *hcloud.Response, error)

	// Validate checks an existing resource against the desired state
	// (optional).
	Validate func(resource T) error

	// CreateOptsMapper builds the creation options.
	CreateOptsMapper func() CreateOpts

	// UpdateOptsMapper builds the update options (required with Update).
	UpdateOptsMapper func(resource T) UpdateOpts
}

// Execute gets the resource, reconciling or creating it as needed.
func (op *EnsureOperation[T, CreateOpts, UpdateOpts]) Execute(
	ctx context.Context,
	client *RealClient,
) (T, error) {
	var zero T

	resource, _, err := op.Get(ctx, op.Name)
	if err != nil {
		return zero, fmt.Errorf("get %s %q: %w", op.ResourceType, op.Name, err)
	}

	if !reflect.ValueOf(resource).IsNil() {
		if op.Validate != nil {
			if err := op.Validate(resource); err != nil {
				return zero, err
			}
		}

		if op.Update != nil && op.UpdateOptsMapper != nil {
			updateOpts := op.UpdateOptsMapper(resource)
			actions, _, err := op.Update(ctx, resource, updateOpts)
			if err != nil {
				return zero, fmt.Errorf("update %s %q: %w", op.ResourceType, op.Name, err)
			}
			if err := waitForActions(ctx, client.client, actions...); err != nil {
				return zero, fmt.Errorf("wait for %s update: %w", op.ResourceType, err)
			}
		}

		return resource, nil
	}

	result, _, err := op.Create(ctx, op.CreateOptsMapper())
	if err != nil {
		return zero, fmt.Errorf("create %s %q: %w", op.ResourceType, op.Name, err)
	}
	if err := waitForActionResult(ctx, client.client, result); err != nil {
		return zero, fmt.Errorf("wait for %s creation: %w", op.ResourceType, err)
	}

	return result.Resource, nil
}

// waitForActions blocks until all actions completed. A nil or empty
// action list succeeds without touching the API.
func waitForActions(ctx context.Context, client *hcloud.Client, actions ...*hcloud.Action) error {
	if len(actions) == 0 {
		return nil
	}
	return client.Action.WaitFor(ctx, actions...)
}

// waitForActionResult waits for the actions recorded in a CreateResult.
// The singular Action field takes precedence over the Actions slice.
func waitForActionResult[T any](ctx context.Context, client *hcloud.Client, result *CreateResult[T]) error {
	if result.Action != nil {
		return client.Action.WaitFor(ctx, result.Action)
	}
	if len(result.Actions) > 0 {
		return client.Action.WaitFor(ctx, result.Actions...)
	}
	return nil
}

// simpleCreate adapts create calls that return the bare resource, for
// resource types whose creation completes synchronously.
func simpleCreate[T any, Opts any](
	createFn func(context.Context, Opts) (T, *hcloud.Response, error),
) func(context.Context, Opts) (*CreateResult[T], *hcloud.Response, error) {
	return func(ctx context.Context, opts Opts) (*CreateResult[T], *hcloud.Response, error) {
		resource, resp, err := createFn(ctx, opts)
		if err != nil {
			return nil, resp, err
		}
		return &CreateResult[T]{Resource: resource}, resp, nil
	}
}
