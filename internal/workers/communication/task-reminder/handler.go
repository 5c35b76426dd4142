// internal/workers/communication/task-reminder/handler.go
package taskreminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	cerrors "counsel-workers/internal/common/errors"
	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "task-reminder"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
	ErrMissingRecipient       = errors.New("MISSING_RECIPIENT")
)

// EmailSender is satisfied by the SES client wrapper.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SMSSender is satisfied by the SNS client wrapper.
type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config *Config
	email  EmailSender
	sms    SMSSender
	logger logger.Logger
}

func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		email:  email,
		sms:    sms,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, cerrors.ErrCodeParseError, fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := cerrors.ErrCodeNotificationFailed
		if errors.Is(err, ErrMissingRecipient) {
			errorCode = cerrors.ErrCodeMissingRecipient
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// execute delivers a due-task digest over the selected channels. An empty
// task list completes without sending anything.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Tasks) == 0 {
		return &Output{Success: true, SkippedEmpty: true}, nil
	}

	channel := input.Channel
	if channel == "" {
		channel = ChannelEmail
	}

	out := &Output{TaskCount: len(input.Tasks)}

	if channel == ChannelEmail || channel == ChannelBoth {
		if input.Email == "" {
			return nil, fmt.Errorf("%w: email channel selected but no address given", ErrMissingRecipient)
		}
		if err := h.sendEmail(ctx, input); err != nil {
			return nil, fmt.Errorf("%w: email: %v", ErrNotificationSendFailed, err)
		}
		out.EmailSent = true
	}

	if channel == ChannelSMS || channel == ChannelBoth {
		if input.Phone == "" {
			return nil, fmt.Errorf("%w: sms channel selected but no phone given", ErrMissingRecipient)
		}
		if err := h.sendSMS(ctx, input); err != nil {
			return nil, fmt.Errorf("%w: sms: %v", ErrNotificationSendFailed, err)
		}
		out.SMSSent = true
	}

	out.Success = true
	out.DeliveredAt = time.Now().UTC()

	h.logger.Info("reminder delivered", map[string]interface{}{
		"userId":    input.UserID,
		"channel":   channel,
		"taskCount": out.TaskCount,
	})

	return out, nil
}

func (h *Handler) sendEmail(ctx context.Context, input *Input) error {
	subject := fmt.Sprintf("You have %d upcoming tasks", len(input.Tasks))
	body := buildDigest(input)

	_, err := h.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(h.config.DefaultFrom),
		Destination: &sestypes.Destination{
			ToAddresses: []string{input.Email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, input *Input) error {
	message := fmt.Sprintf("Reminder: %d tasks due soon. Next: %s (due %s)",
		len(input.Tasks), input.Tasks[0].Title, dueLabel(input.Tasks[0].DueDate))

	publishInput := &sns.PublishInput{
		Message:     aws.String(message),
		PhoneNumber: aws.String(input.Phone),
	}
	if h.config.SMSTopicARN != "" {
		publishInput = &sns.PublishInput{
			Message:  aws.String(message),
			TopicArn: aws.String(h.config.SMSTopicARN),
		}
	}

	_, err := h.sms.Publish(ctx, publishInput)
	return err
}

func buildDigest(input *Input) string {
	var b strings.Builder
	b.WriteString("Here are your upcoming tasks:\n\n")
	for _, task := range input.Tasks {
		fmt.Fprintf(&b, "- [%s] %s (due %s)\n", strings.ToUpper(task.Priority), task.Title, dueLabel(task.DueDate))
	}
	b.WriteString("\nLog in to your dashboard to mark tasks complete.\n")
	return b.String()
}

func dueLabel(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "soon"
	}
	return t.Format("Jan 2")
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode cerrors.ErrorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errorCode)).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    string(errorCode),
		"errorMessage": errorMessage,
		"retryable":    cerrors.IsRetryable(errorCode),
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(string(errorCode)).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
