// Package canvas is a read-only client for the Canvas LMS REST API.
//
// It fetches a course's modules and module items to build the ordered
// curriculum, and counts active student enrollments for class-size metrics.
// Every list endpoint follows the Link header's rel="next" pagination.
// Clients hold pooled connections; call Close when done.
package canvas
