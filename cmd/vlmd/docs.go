package main

// General API documentation for swaggo. Regenerate with `swag init -g cmd/vlmd/main.go`.
//
// @title           vlmd API
// @version         1.0
// @description     HTTP API for hosted multimodal model inference.
//
// @contact.name   vlmd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
