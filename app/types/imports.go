package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const maxImportRows = 10000

type CreateImportRequest struct {
	Profile string              `json:"profile"`
	Rows    []map[string]string `json:"rows"`
}

func NewCreateImportRequestFromContext(ctx echo.Context) (*CreateImportRequest, error) {
	var body CreateImportRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Profile = strings.TrimSpace(body.Profile)
	return &body, nil
}

func (r *CreateImportRequest) Validate() error {
	if r.Profile == "" {
		return errors.New("profile is required")
	}
	if len(r.Rows) == 0 {
		return errors.New("rows are required")
	}
	if len(r.Rows) > maxImportRows {
		return errors.New("too many rows in one import")
	}
	return nil
}

type ListImportRunsRequest struct {
	Limit  int32
	Offset int32
}

func NewListImportRunsRequestFromContext(ctx echo.Context) (*ListImportRunsRequest, error) {
	req := &ListImportRunsRequest{Limit: 100}

	if limitRaw := strings.TrimSpace(ctx.QueryParam("limit")); limitRaw != "" {
		limit, err := strconv.ParseInt(limitRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Limit = int32(limit)
	}

	if offsetRaw := strings.TrimSpace(ctx.QueryParam("offset")); offsetRaw != "" {
		offset, err := strconv.ParseInt(offsetRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Offset = int32(offset)
	}

	return req, nil
}

func (r *ListImportRunsRequest) Validate() error {
	if r.Limit <= 0 || r.Limit > 500 {
		return errors.New("limit must be between 1 and 500")
	}
	if r.Offset < 0 {
		return errors.New("offset must be >= 0")
	}
	return nil
}

type GetImportRunRequest struct {
	Id string
}

func NewGetImportRunRequestFromContext(ctx echo.Context) (*GetImportRunRequest, error) {
	return &GetImportRunRequest{Id: strings.TrimSpace(ctx.Param("id"))}, nil
}

func (r *GetImportRunRequest) Validate() error {
	if r.Id == "" {
		return errors.New("invalid import run id")
	}
	return nil
}
