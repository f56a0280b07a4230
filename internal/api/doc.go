// Package api handles incoming HTTP requests, request validation and
// response formatting for the task endpoints. It translates HTTP concerns
// into calls on the task and upload services and maps their errors back
// onto status codes.
package api
