// Package ws implements the real-time layer: the connection registry over
// the keyed store and the broadcaster that fans chat events out to every
// live connection of the addressed users.
package ws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/sony/gobreaker"
)

// ErrConnectionGone reports that the remote endpoint no longer exists. It
// is the one delivery failure that triggers connection-row cleanup; every
// other failure is merely logged.
var ErrConnectionGone = errors.New("connection gone")

// Transport posts a payload to one connection.
type Transport interface {
	Post(ctx context.Context, connectionID string, payload []byte) error
}

// APIGatewayTransport delivers through the API Gateway management API. A
// circuit breaker guards against a flapping endpoint; gone responses are
// normal operation and never trip it.
type APIGatewayTransport struct {
	client  *apigatewaymanagementapi.Client
	breaker *gobreaker.CircuitBreaker
}

func NewAPIGatewayTransport(client *apigatewaymanagementapi.Client) *APIGatewayTransport {
	return &APIGatewayTransport{
		client:  client,
		breaker: newPostBreaker(),
	}
}

func newPostBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "ws-post-to-connection",
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrConnectionGone)
		},
	})
}

func (t *APIGatewayTransport) Post(ctx context.Context, connectionID string, payload []byte) error {
	_, err := t.breaker.Execute(func() (interface{}, error) {
		_, err := t.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: &connectionID,
			Data:         payload,
		})
		if err != nil {
			var gone *apigwtypes.GoneException
			if errors.As(err, &gone) {
				return nil, ErrConnectionGone
			}
			return nil, fmt.Errorf("post to connection %s: %w", connectionID, err)
		}
		return nil, nil
	})
	return err
}
