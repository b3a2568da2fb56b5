package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cjodon01/autoauthadmin/domain/dto"
	"github.com/cjodon01/autoauthadmin/domain/feature"
	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
	"github.com/cjodon01/autoauthadmin/infrastructure/logger"
	"github.com/cjodon01/autoauthadmin/infrastructure/metrics"
)

type IDispatchUsecase interface {
	Dispatch(ctx context.Context, principal model.Principal, req dto.DispatchRequest) (*dto.DispatchResponse, error)
}

type dispatchUsecase struct {
	credentials ICredentialUsecase
	adapter     repository.IPlatformAdapter
	audit       IAuditUsecase
	metrics     metrics.IRecorder
}

func NewDispatchUsecase(credentials ICredentialUsecase, adapter repository.IPlatformAdapter, audit IAuditUsecase, recorder metrics.IRecorder) IDispatchUsecase {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &dispatchUsecase{credentials: credentials, adapter: adapter, audit: audit, metrics: recorder}
}

// Dispatch runs validate, resolve, call and log for one feature request.
// Only requests that reached an adapter leave a call record.
func (u *dispatchUsecase) Dispatch(ctx context.Context, principal model.Principal, req dto.DispatchRequest) (*dto.DispatchResponse, error) {
	lg := logger.GetLogger().WithFields(logrus.Fields{
		"requestId": uuid.New().String(),
		"user_id":   principal.UserID,
		"platform":  req.Platform,
		"feature":   req.Feature,
	})

	platform, desc, err := validateDispatch(principal, req)
	if err != nil {
		lg.WithField("phase", "validate").WithField("error", err).Info("dispatch rejected")
		return nil, err
	}
	lg.WithField("phase", "validate").Debug("dispatch request accepted")

	call, err := u.resolve(ctx, principal, platform, desc, req)
	if err != nil {
		lg.WithField("phase", "resolve").WithField("error", err).Warn("credential resolution failed")
		return nil, err
	}
	lg.WithField("phase", "resolve").WithField("connection_id", call.Account.ConnectionID).Debug("credentials resolved")

	started := time.Now()
	res, callErr := u.adapter.Execute(ctx, call)
	elapsed := time.Since(started)
	if res == nil && callErr == nil {
		callErr = model.NewUpstreamError("platform adapter returned no result", nil)
	}
	u.metrics.ObserveDispatch(string(platform), string(desc.Key), outcome(res, callErr), elapsed)

	callLog := lg.WithField("phase", "call").WithField("elapsed_ms", elapsed.Milliseconds())
	if callErr != nil {
		callLog.WithField("error", callErr).Warn("platform call failed")
	} else {
		callLog.WithField("status", res.StatusCode).Info("platform call finished")
	}

	rec := buildCallRecord(principal, model.ActionTypeDispatchPrefix+string(desc.Key), desc, call, res, callErr)
	u.audit.RecordAsync(ctx, rec)
	lg.WithField("phase", "log").WithField("record_id", rec.ID).WithField("response_code", rec.ResponseCode).Debug("call record queued")

	if callErr != nil {
		return nil, callErr
	}

	out := &dto.DispatchResponse{
		Success:       res.OK() || res.Unimplemented,
		Endpoint:      res.Endpoint,
		Method:        res.Method,
		Summary:       res.Summary,
		StatusCode:    res.StatusCode,
		Unimplemented: res.Unimplemented,
		Response:      res.Response,
	}
	if !out.Success {
		out.Error = res.ErrorMessage
	}
	return out, nil
}

func validateDispatch(principal model.Principal, req dto.DispatchRequest) (feature.Platform, feature.Descriptor, error) {
	if principal.UserID == "" {
		return "", feature.Descriptor{}, model.NewValidationError("missing authenticated user")
	}
	if strings.TrimSpace(req.Platform) == "" || strings.TrimSpace(req.Feature) == "" {
		return "", feature.Descriptor{}, model.NewValidationError("platform and feature are required")
	}
	platform, ok := feature.ParsePlatform(req.Platform)
	if !ok {
		return "", feature.Descriptor{}, model.NewValidationError("unsupported platform: %s", req.Platform)
	}
	desc, ok := feature.Describe(platform, feature.Key(strings.TrimSpace(req.Feature)))
	if !ok {
		return "", feature.Descriptor{}, model.NewValidationError("unsupported %s feature: %s", platform, req.Feature)
	}
	if strings.TrimSpace(req.ConnectionID) == "" {
		return "", feature.Descriptor{}, model.NewValidationError("connectionId is required")
	}
	if desc.RequiresPage() && strings.TrimSpace(req.PageID) == "" {
		return "", feature.Descriptor{}, model.NewValidationError("pageId is required for %s", desc.Key)
	}
	if desc.RequiresContent && strings.TrimSpace(req.Content) == "" {
		return "", feature.Descriptor{}, model.NewValidationError("content is required for %s", desc.Key)
	}
	if desc.RequiresPostID && strings.TrimSpace(req.PostID) == "" {
		return "", feature.Descriptor{}, model.NewValidationError("postId is required for %s", desc.Key)
	}
	return platform, desc, nil
}

func (u *dispatchUsecase) resolve(ctx context.Context, principal model.Principal, platform feature.Platform, desc feature.Descriptor, req dto.DispatchRequest) (model.AdapterCall, error) {
	call := model.AdapterCall{
		Platform: string(platform),
		Feature:  string(desc.Key),
		Content:  req.Content,
		PostID:   strings.TrimSpace(req.PostID),
	}
	account, err := u.credentials.ResolveAccount(ctx, principal.UserID, strings.TrimSpace(req.ConnectionID))
	if err != nil {
		return call, err
	}
	if !feature.SameFamily(account.Platform, string(platform)) {
		return call, model.NewCredentialError("connection "+account.ConnectionID+" is not a "+string(platform)+" connection", nil)
	}
	call.Account = *account

	// Account-scope features ignore a supplied pageId.
	if desc.RequiresPage() {
		page, err := u.credentials.ResolvePage(ctx, principal.UserID, strings.TrimSpace(req.PageID), account)
		if err != nil {
			return call, err
		}
		call.Page = page
	}
	return call, nil
}

// buildCallRecord maps one adapter attempt to its audit row. A nil result
// means the adapter gave up before sending anything.
func buildCallRecord(principal model.Principal, actionType string, desc feature.Descriptor, call model.AdapterCall, res *model.CallResult, callErr error) *model.CallRecord {
	userID := principal.UserID
	rec := &model.CallRecord{
		UserID:       &userID,
		ActionType:   actionType,
		ResponseCode: model.StatusNoResponse,
	}
	if res != nil {
		rec.Endpoint = res.Endpoint
		rec.Method = res.Method
		rec.ResponseCode = res.StatusCode
		rec.RequestBody = res.RequestBody
		rec.ResponseBody = res.Response
		if !res.OK() && !res.Unimplemented && res.ErrorMessage != "" {
			msg := res.ErrorMessage
			rec.ErrorMessage = &msg
		}
	}
	if rec.Endpoint == "" {
		rec.Endpoint = call.Platform + "/" + string(desc.Key)
	}
	if rec.Method == "" {
		rec.Method = http.MethodGet
		if desc.RequiresContent {
			rec.Method = http.MethodPost
		}
	}
	if rec.RequestBody == nil && call.Content != "" {
		rec.RequestBody = messageBody(call.Content)
	}
	if callErr != nil {
		msg := callErr.Error()
		rec.ErrorMessage = &msg
	}
	return rec
}

// messageBody snapshots posted content without HTML escaping.
func messageBody(content string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]string{"message": content}); err != nil {
		return nil
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func outcome(res *model.CallResult, err error) string {
	switch {
	case err != nil:
		if kind := model.KindOf(err); kind != "" {
			return string(kind)
		}
		return "error"
	case res.Unimplemented:
		return "unimplemented"
	case res.OK():
		return "success"
	default:
		return "rejected"
	}
}
