package controllers

import (
	"net/http"

	"github.com/hyejinmoon/babysteps-backend/api/middleware"
	"github.com/hyejinmoon/babysteps-backend/api/responses"
	"github.com/hyejinmoon/babysteps-backend/api/validators"
	"github.com/hyejinmoon/babysteps-backend/internal/clipboard"
	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
	pkgerrors "github.com/hyejinmoon/babysteps-backend/pkg/errors"
	"github.com/hyejinmoon/babysteps-backend/pkg/logger"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

type clipboardCopyPayload struct {
	Date string `json:"date" validate:"required"`
	Slot string `json:"slot" validate:"required,oneof=morning lunch dinner"`
}

type clipboardPastePayload struct {
	Targets []string `json:"targets" validate:"required,min=1,dive,required"`
}

// ClipboardCopy remembers a (date, slot) key on the caller's session.
func ClipboardCopy(svc clipboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload clipboardCopyPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		date, err := types.ParseDate(payload.Date)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "date must be a YYYY-MM-DD date"))
			return
		}
		slot, err := enums.ParseMealSlot(payload.Slot)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meal slot"))
			return
		}

		sessionID := middleware.SessionIDFromContext(ctx)
		if err := svc.Copy(ctx, sessionID, date, slot); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "copied"})
	}
}

// ClipboardPaste replays the copied record onto the target dates.
func ClipboardPaste(svc clipboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload clipboardPastePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		targets, err := parseTargetDates(payload.Targets)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(ctx)
		copies, err := svc.Paste(ctx, sessionID, targets)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"meals": copies})
	}
}

// ClipboardClear drops the session's clipboard.
func ClipboardClear(svc clipboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sessionID := middleware.SessionIDFromContext(ctx)
		if err := svc.Clear(ctx, sessionID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
