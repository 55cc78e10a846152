// Package automation provides the Azure Automation runbook trigger tool.
package automation

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Azure/azure-resources-mcp/internal/azure"
	"github.com/Azure/azure-resources-mcp/internal/components/common"
	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/Azure/azure-resources-mcp/internal/logger"
	"github.com/Azure/azure-resources-mcp/internal/tools"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/automation/armautomation"
	"github.com/google/uuid"
)

const (
	defaultJobTimeout = 900 * time.Second
	defaultPollDelay  = 10 * time.Second
)

// AutomationClient is the slice of the Azure client this component needs.
type AutomationClient interface {
	CreateRunbookJob(ctx context.Context, subscriptionID string, authType azure.AuthType, resourceGroup, automationAccount, jobName, runbookName string, parameters map[string]*string) (*armautomation.Job, error)
	GetRunbookJob(ctx context.Context, subscriptionID string, authType azure.AuthType, resourceGroup, automationAccount, jobName string) (*armautomation.Job, error)
	ListRunbookJobStreams(ctx context.Context, subscriptionID string, authType azure.AuthType, resourceGroup, automationAccount, jobName string) ([]*armautomation.JobStream, error)
}

// JobResult is the client-facing shape of a completed runbook job.
type JobResult struct {
	JobName string         `json:"job_name"`
	Runbook string         `json:"runbook"`
	Status  string         `json:"status"`
	Streams []StreamRecord `json:"streams"`
}

// StreamRecord is one output stream entry of a runbook job.
type StreamRecord struct {
	StreamType string `json:"stream_type,omitempty"`
	Time       string `json:"time,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

// TriggerRunbookHandler returns a handler for the trigger_runbook tool. The
// handler creates the job, polls it to a terminal state (bounded by
// timeout_seconds) and returns its streams. pollDelay is fixed; tests drive
// the handler through a fake client that reaches a terminal state
// immediately.
func TriggerRunbookHandler(client AutomationClient) tools.ResourceHandler {
	return triggerRunbookHandler(client, defaultPollDelay)
}

func triggerRunbookHandler(client AutomationClient, pollDelay time.Duration) tools.ResourceHandler {
	return tools.ResourceHandlerFunc(func(ctx context.Context, params map[string]interface{}, cfg *config.ConfigData) (string, error) {
		subID, err := common.ExtractSubscriptionID(params, cfg)
		if err != nil {
			return "", err
		}
		resourceGroup, err := common.ExtractRequiredString(params, "resource_group_name")
		if err != nil {
			return "", err
		}
		account, err := common.ExtractRequiredString(params, "automation_account_name")
		if err != nil {
			return "", err
		}
		runbook, err := common.ExtractRequiredString(params, "runbook_name")
		if err != nil {
			return "", err
		}
		authType, err := common.ExtractAuthType(params)
		if err != nil {
			return "", err
		}

		runbookParams, err := parseRunbookParameters(common.ExtractOptionalString(params, "runbook_parameters"))
		if err != nil {
			return "", err
		}

		timeout := defaultJobTimeout
		if raw := common.ExtractOptionalString(params, "timeout_seconds"); raw != "" {
			seconds, err := strconv.Atoi(raw)
			if err != nil || seconds <= 0 {
				return "", tools.NewError(tools.KindInvalidRequest, "timeout_seconds must be a positive integer, got %q", raw)
			}
			timeout = time.Duration(seconds) * time.Second
		}

		jobName := uuid.NewString()
		job, err := client.CreateRunbookJob(ctx, subID, authType, resourceGroup, account, jobName, runbook, runbookParams)
		if err != nil {
			return "", err
		}
		logger.Infof("created job %s for runbook %s in account %s", jobName, runbook, account)

		status, err := waitForJob(ctx, client, subID, authType, resourceGroup, account, jobName, jobStatus(job), timeout, pollDelay)
		if err != nil {
			return "", err
		}

		streams, err := client.ListRunbookJobStreams(ctx, subID, authType, resourceGroup, account, jobName)
		if err != nil {
			logger.Warnf("job %s finished with status %s but stream listing failed: %v", jobName, status, err)
			streams = nil
		}

		result := JobResult{
			JobName: jobName,
			Runbook: runbook,
			Status:  status,
			Streams: mapStreams(streams),
		}
		return common.FormatJSON(result)
	})
}

// waitForJob polls the job until it reaches a terminal state or the timeout
// elapses. Timing out is reported as a result status, not an error: the job
// keeps running in Azure.
func waitForJob(ctx context.Context, client AutomationClient, subID string, authType azure.AuthType, resourceGroup, account, jobName, status string, timeout, pollDelay time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	for !isTerminalStatus(status) {
		if time.Now().After(deadline) {
			logger.Warnf("job %s timed out after %s (last status: %s)", jobName, timeout, status)
			return "TimedOut", nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(pollDelay):
		}

		job, err := client.GetRunbookJob(ctx, subID, authType, resourceGroup, account, jobName)
		if err != nil {
			return "", err
		}
		status = jobStatus(job)
		logger.Debugf("job %s status: %s", jobName, status)
	}
	return status, nil
}

func jobStatus(job *armautomation.Job) string {
	if job == nil || job.Properties == nil || job.Properties.Status == nil {
		return ""
	}
	return string(*job.Properties.Status)
}

func isTerminalStatus(status string) bool {
	switch armautomation.JobStatus(status) {
	case armautomation.JobStatusCompleted,
		armautomation.JobStatusFailed,
		armautomation.JobStatusStopped,
		armautomation.JobStatusSuspended:
		return true
	}
	return false
}

func parseRunbookParameters(raw string) (map[string]*string, error) {
	if raw == "" {
		return nil, nil
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, tools.NewError(tools.KindInvalidRequest,
			"runbook_parameters must be a JSON object of strings: %v", err)
	}
	parameters := make(map[string]*string, len(values))
	for key, value := range values {
		parameters[key] = to.Ptr(value)
	}
	return parameters, nil
}

func mapStreams(streams []*armautomation.JobStream) []StreamRecord {
	records := make([]StreamRecord, 0, len(streams))
	for _, stream := range streams {
		if stream == nil || stream.Properties == nil {
			continue
		}
		record := StreamRecord{}
		if stream.Properties.StreamType != nil {
			record.StreamType = string(*stream.Properties.StreamType)
		}
		if stream.Properties.Time != nil {
			record.Time = stream.Properties.Time.Format(time.RFC3339)
		}
		if stream.Properties.Summary != nil {
			record.Summary = *stream.Properties.Summary
		}
		records = append(records, record)
	}
	return records
}
