// common.go
//
// Student organization portal API service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of orgportal.
// orgportal is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// orgportal is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with orgportal.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/orgportal/internal/middleware"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/localnerve/orgportal/internal/types"
	"github.com/localnerve/orgportal/internal/utils"
	"github.com/localnerve/orgportal/internal/validation"
	"github.com/sirupsen/logrus"
)

// actorOf returns the actor stored by the auth middleware. Public routes get
// the zero Actor.
func actorOf(c *fiber.Ctx) services.Actor {
	actor, _ := c.Locals(middleware.ActorKey).(services.Actor)
	return actor
}

// paramID parses a numeric path parameter. Anything else cannot name a row,
// so it is reported as not found.
func paramID(c *fiber.Ctx, name, what string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, types.NewNotFoundError(what + " not found")
	}
	return id, nil
}

// bind decodes the request body into dst and runs its validate tags
func bind(c *fiber.Ctx, dst interface{}) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(dst); err != nil {
			return &types.CustomError{
				Code:    fiber.StatusBadRequest,
				Message: "Malformed request body",
				Type:    types.TypeValidation,
				Err:     err,
			}
		}
	}
	return validation.Struct(dst)
}

// ErrorHandler renders every error returned by a handler or middleware in the
// response envelope. Unexpected errors are logged and masked unless debug is on.
func ErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if ce, ok := types.AsCustomError(err); ok {
			if len(ce.Fields) > 0 {
				return utils.ValidationResponse(c, ce.Message, ce.Fields, ce.Type)
			}
			return utils.ErrorResponse(c, ce.Message, ce.Code, ce.Type)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return utils.ErrorResponse(c, fe.Message, fe.Code, httpErrorType(fe.Code))
		}

		actor := actorOf(c)
		logrus.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"actor":  actor.ID,
		}).WithError(err).Error("Request failed")

		message := "Internal server error"
		if debug {
			message = err.Error()
		}
		return utils.ErrorResponse(c, message, fiber.StatusInternalServerError, types.TypeInternal)
	}
}

func httpErrorType(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return types.TypeNotFound
	case fiber.StatusUnauthorized:
		return types.TypeUnauthorized
	case fiber.StatusForbidden:
		return types.TypeForbidden
	case fiber.StatusConflict:
		return types.TypeConflict
	case fiber.StatusTooManyRequests:
		return "throttled"
	}
	return "http"
}
