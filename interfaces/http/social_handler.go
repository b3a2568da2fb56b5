package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cjodon01/autoauthadmin/domain/dto"
	"github.com/cjodon01/autoauthadmin/domain/feature"
	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/infrastructure/logger"
	"github.com/cjodon01/autoauthadmin/interfaces/middleware"
	"github.com/cjodon01/autoauthadmin/usecase"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
	errorInternal  = "internal error"
)

type ISocialHandler interface {
	Dispatch(c *gin.Context)
	SinglePost(c *gin.Context)
	Features(c *gin.Context)
	CallRecords(c *gin.Context)
}

type SocialHandler struct {
	dispatch    usecase.IDispatchUsecase
	singlePost  usecase.ISinglePostUsecase
	callRecords usecase.ICallRecordUsecase
}

func NewSocialHandler(dispatch usecase.IDispatchUsecase, singlePost usecase.ISinglePostUsecase, callRecords usecase.ICallRecordUsecase) ISocialHandler {
	return &SocialHandler{dispatch: dispatch, singlePost: singlePost, callRecords: callRecords}
}

func (h *SocialHandler) Dispatch(c *gin.Context) {
	var req dto.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.dispatch.Dispatch(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	if !res.Success {
		c.JSON(http.StatusBadGateway, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SocialHandler) SinglePost(c *gin.Context) {
	var req dto.SinglePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.singlePost.Publish(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Features lists the catalog, optionally for one ?platform=.
func (h *SocialHandler) Features(c *gin.Context) {
	platforms := feature.Platforms()
	if raw := c.Query("platform"); raw != "" {
		p, ok := feature.ParsePlatform(raw)
		if !ok {
			writeError(c, model.NewValidationError("unsupported platform: %s", raw))
			return
		}
		platforms = []feature.Platform{p}
	}

	out := make([]dto.PlatformFeatures, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, dto.PlatformFeatures{Platform: p, Features: feature.Features(p)})
	}
	c.JSON(http.StatusOK, out)
}

func (h *SocialHandler) CallRecords(c *gin.Context) {
	filter := model.CallRecordFilter{ActionType: c.Query("action_type")}
	var err error
	if filter.Limit, err = intQuery(c, "limit"); err != nil {
		writeError(c, err)
		return
	}
	if filter.Offset, err = intQuery(c, "offset"); err != nil {
		writeError(c, err)
		return
	}

	records, total, applied, err := h.callRecords.List(c.Request.Context(), middleware.Principal(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	if records == nil {
		records = []model.CallRecord{}
	}
	c.JSON(http.StatusOK, dto.CallRecordList{Data: records, Total: total, Limit: applied.Limit, Offset: applied.Offset})
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError("%s must be an integer", name)
	}
	return n, nil
}

func badRequest(c *gin.Context, err error) {
	logger.GetLogger().WithField("error", err).Info(ErrorUnmarshal)
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:     fmt.Sprintf("%s: %v", ErrorUnmarshal, err),
		ErrorType: string(model.KindValidation),
	})
}

// writeError maps dispatch errors to HTTP statuses. Anything untyped is a 500
// and its detail stays in the log.
func writeError(c *gin.Context, err error) {
	var de *model.DispatchError
	if !errors.As(err, &de) {
		logger.GetLogger().WithField("error", err).Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: errorInternal})
		return
	}

	res := dto.ErrorResponse{Error: de.Message, ErrorType: string(de.Kind)}
	status := http.StatusInternalServerError
	switch de.Kind {
	case model.KindValidation, model.KindPrecondition:
		status = http.StatusBadRequest
	case model.KindCredential:
		status = http.StatusUnprocessableEntity
	case model.KindUpstream:
		status = http.StatusBadGateway
	case model.KindRejected:
		status = http.StatusBadGateway
		res.StatusCode = de.Status
	case model.KindAudit:
		res.Error = errorInternal
		logger.GetLogger().WithField("error", err).Error("Audit write failed")
	}
	c.JSON(status, res)
}
