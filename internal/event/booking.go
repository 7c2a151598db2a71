package event

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/uma-arai/sbcntr-stay/internal/common/tracing"
	"github.com/uma-arai/sbcntr-stay/internal/model"
)

// BookingPublisher は予約作成イベントを後続のワークフローへ通知します
type BookingPublisher interface {
	PublishBookingCreated(ctx context.Context, event model.BookingEvent) error
}

// StartExecutionAPI はsfn.ClientのうちStartExecutionのみを切り出したものです
type StartExecutionAPI interface {
	StartExecution(ctx context.Context, params *sfn.StartExecutionInput, optFns ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error)
}

// NewSFNClient はX-Rayで計測するStep Functionsのクライアントを作成します
func NewSFNClient(ctx context.Context) (*sfn.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	return sfn.NewFromConfig(awsCfg), nil
}

// SFNBookingPublisher は予約ごとにStep Functionsのステートマシンを実行します
type SFNBookingPublisher struct {
	client          StartExecutionAPI
	stateMachineArn string
	breaker         *gobreaker.CircuitBreaker
}

func NewSFNBookingPublisher(client StartExecutionAPI, stateMachineArn string) *SFNBookingPublisher {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "BookingWorkflow",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit Breaker %s state changed from %s to %s", name, from, to)
		},
	})

	return &SFNBookingPublisher{
		client:          client,
		stateMachineArn: stateMachineArn,
		breaker:         breaker,
	}
}

// PublishBookingCreated はイベントを入力としてステートマシンの実行を開始します
func (p *SFNBookingPublisher) PublishBookingCreated(ctx context.Context, event model.BookingEvent) error {
	// ローカルの場合はStep Functionsの処理をスキップ
	if os.Getenv("ENV") == "LOCAL" || p.client == nil || p.stateMachineArn == "" {
		log.Printf("Local environment detected. Skipping booking workflow for booking %d", event.BookingID)
		return nil
	}

	ctx, span := tracing.Start(ctx, "BookingPublisher.PublishBookingCreated")
	defer span.End(nil)

	input, err := json.Marshal(map[string]any{
		"booking": event,
	})
	if err != nil {
		span.End(err)
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	_, err = p.breaker.Execute(func() (interface{}, error) {
		return p.client.StartExecution(ctx, &sfn.StartExecutionInput{
			StateMachineArn: aws.String(p.stateMachineArn),
			Name:            aws.String(fmt.Sprintf("booking-%d-%s", event.BookingID, uuid.NewString())),
			Input:           aws.String(string(input)),
		})
	})
	if err != nil {
		span.End(err)
		return fmt.Errorf("failed to start booking workflow: %w", err)
	}

	log.Printf("Successfully started booking workflow for booking %d", event.BookingID)
	return nil
}

type NopBookingPublisher struct{}

func (NopBookingPublisher) PublishBookingCreated(context.Context, model.BookingEvent) error {
	return nil
}
