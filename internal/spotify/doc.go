// Package spotify is a thin client for the Spotify Web API.
//
// # Session
//
// A [Client] holds one bearer token. [Client.SetAccessToken] replaces it; nothing in the package
// refreshes or expires it. Every request sends
//
//	Authorization: Bearer <token>
//	Content-Type: application/json
//
// and a request made without a token fails with [ErrNoAccessToken] before touching the network.
//
// # Requests
//
// [Client.Do] is the single request primitive. It takes a [Request] (method, path relative to the
// base URL, ordered [Query], optional JSON body) and returns the response body decoded into an untyped
// JSON value. Responses are never mapped onto domain structs; callers receive exactly what the API sent.
//
// # Endpoint Catalog
//
// Every Web API operation the client knows about is a declarative [Endpoint] in the catalog
// (see [Endpoints] and [Lookup]). An endpoint names its method, path template and parameters, with
// the documented defaults (page size 20, offset 0, time range "medium_term", ...). [Client.Call]
// resolves an endpoint by name, validates and coerces [Args], fills defaults and hands the built
// [Request] to [Client.Do]. A handful of typed helpers ([Client.UserPlaylists], [Client.StartPlayback], ...)
// wrap Call for the operations the CLI uses most.
//
// # Asynchronous Use
//
// [Client.Go] and [Client.DoAsync] run a request in a goroutine and return a channel that receives
// exactly one [Result] before being closed. Completion order across calls is not guaranteed.
//
// # Errors
//
//   - [ErrNoAccessToken] : no token set; no request was made
//   - [*APIError] : non-2xx response; the message comes from the {"error": {"message"}} envelope when present,
//     otherwise the HTTP status text
//   - [*ParseError] : 2xx response whose body is not valid JSON
//   - shared.ErrMissingArgument / shared.ErrInvalidArgument : bad [Args] for an endpoint
//
// # Token Exchange
//
// [Client.ExchangeCodeForToken] and [Client.RefreshToken] talk to the accounts service rather than the
// API host, send form-encoded bodies, and share the response handling above. [AuthCodeURL] builds the
// PKCE authorize URL; capturing the redirect is left to the caller.
package spotify
