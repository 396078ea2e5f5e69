// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away common body decoding patterns and the lookup of the
authenticated identity, ensuring consistent error handling across handlers.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/taibuivan/portfoliohub/internal/platform/ctxutil"
	"github.com/taibuivan/portfoliohub/internal/platform/sec"
	"github.com/taibuivan/portfoliohub/internal/platform/validate"
)

// MaxBodyBytes caps JSON request bodies accepted by [DecodeJSON].
const MaxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to enforce the body size limit)
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target interface{}) error {
	if request.Body == nil {
		return validate.ErrInvalidJSON
	}

	body := http.MaxBytesReader(writer, request.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
User extracts the authenticated identity from the request context.

Returns nil if the request is anonymous.
*/
func User(request *http.Request) *sec.Identity {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredUser ensures the request is authenticated and returns its identity.

Returns:
  - *sec.Identity: The authenticated user
  - error: sec.ErrAuthRequired if the request is not authenticated
*/
func RequiredUser(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetAuthUser(request.Context())
	if identity == nil {
		return nil, sec.ErrAuthRequired
	}
	return identity, nil
}
