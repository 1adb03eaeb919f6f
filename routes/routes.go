package routes

// Routes package cung cấp tất cả routing functions cho PS assignment service
//
// Cấu trúc:
// - api.go: API routes (/v1/*) và health check
// - web.go: Web routes (/, /docs, /status)
//
// Sử dụng:
// routes.SetupAllRoutes(router, assignmentController, adminController)
