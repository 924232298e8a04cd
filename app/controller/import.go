package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/mlongerich/DonationTracker-sub005/app/factory"
	"github.com/mlongerich/DonationTracker-sub005/app/importer"
	"github.com/mlongerich/DonationTracker-sub005/app/mapper"
	"github.com/mlongerich/DonationTracker-sub005/app/service"
	"github.com/mlongerich/DonationTracker-sub005/app/types"
)

type ImportController struct {
	importService   *service.ImportService
	donationService *service.DonationService
	logger          logrus.FieldLogger
}

func NewImportController(importService *service.ImportService, donationService *service.DonationService) *ImportController {
	return &ImportController{
		importService:   importService,
		donationService: donationService,
		logger:          factory.NewModuleLogger("imports-controller"),
	}
}

func (c *ImportController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *ImportController) CreateImport(ctx echo.Context) error {
	req, err := types.NewCreateImportRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	rows := make([]importer.RawRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, importer.RawRow(row))
	}

	run, err := c.importService.RunImport(ctx.Request().Context(), req.Profile, rows)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileUnsupported), errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Import run failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &types.ImportRunEnvelopeResponse{ImportRun: mapper.ImportRunToResponse(run)})
}

func (c *ImportController) GetImportRun(ctx echo.Context) error {
	req, err := types.NewGetImportRunRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	run, err := c.importService.GetImportRun(ctx.Request().Context(), req.Id)
	if err != nil {
		if errors.Is(err, service.ErrImportRunNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "import run not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get import run failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ImportRunEnvelopeResponse{ImportRun: mapper.ImportRunToResponse(run)})
}

func (c *ImportController) ListImportRuns(ctx echo.Context) error {
	req, err := types.NewListImportRunsRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	runs, err := c.importService.ListImportRuns(ctx.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List import runs failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListImportRunsResponse{ImportRuns: mapper.ImportRunsToResponse(runs)})
}

func (c *ImportController) GetDonation(ctx echo.Context) error {
	req, err := types.NewGetDonationRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	donation, err := c.donationService.GetDonation(ctx.Request().Context(), req.GetId())
	if err != nil {
		if errors.Is(err, service.ErrDonationNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "donation not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get donation failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.DonationEnvelopeResponse{Donation: mapper.DonationToResponse(donation)})
}

func (c *ImportController) ListDonations(ctx echo.Context) error {
	req, err := types.NewListDonationsRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	donations, err := c.donationService.ListDonations(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List donations failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListDonationsResponse{Donations: mapper.DonationsToResponse(donations)})
}

func (c *ImportController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
