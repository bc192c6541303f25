package canvas

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"coursemetrics/internal/curriculum"
)

// Module is a Canvas course module.
type Module struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// ModuleItem is one entry inside a module.
type ModuleItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Position int    `json:"position"`
}

// Enrollment is the subset of a course enrollment used for counting.
type Enrollment struct {
	ID     int64  `json:"id"`
	UserID *int64 `json:"user_id"`
	Type   string `json:"type"`
	State  string `json:"enrollment_state"`
}

// ListModules returns every module in the course.
func (c *Client) ListModules(ctx context.Context, courseID string) ([]Module, error) {
	path := fmt.Sprintf("/api/v1/courses/%s/modules", url.PathEscape(courseID))
	modules, err := getAll[Module](ctx, c, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list modules for course %s: %w", courseID, err)
	}
	return modules, nil
}

// ListModuleItems returns every item in one module.
func (c *Client) ListModuleItems(ctx context.Context, courseID string, moduleID int64) ([]ModuleItem, error) {
	path := fmt.Sprintf("/api/v1/courses/%s/modules/%d/items", url.PathEscape(courseID), moduleID)
	items, err := getAll[ModuleItem](ctx, c, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list items for module %d: %w", moduleID, err)
	}
	return items, nil
}

// Curriculum builds the ordered item list for a course: modules sorted by
// position, then each module's items sorted by position, titles trimmed.
func (c *Client) Curriculum(ctx context.Context, courseID string) ([]curriculum.Item, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, errors.New("course id must not be empty")
	}
	modules, err := c.ListModules(ctx, courseID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(modules, func(a, b Module) int { return cmp.Compare(a.Position, b.Position) })

	var out []curriculum.Item
	for _, m := range modules {
		items, err := c.ListModuleItems(ctx, courseID, m.ID)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(items, func(a, b ModuleItem) int { return cmp.Compare(a.Position, b.Position) })
		for _, it := range items {
			out = append(out, curriculum.Item{
				ModuleName:     m.Name,
				ModulePosition: m.Position,
				Title:          strings.TrimSpace(it.Title),
				ItemPosition:   it.Position,
				ItemType:       it.Type,
			})
		}
	}
	return out, nil
}

// StudentCount returns the number of distinct users with an active student
// enrollment. ok is false when Canvas refuses the request or reports nobody,
// which callers treat as an unknown class size.
func (c *Client) StudentCount(ctx context.Context, courseID string) (count int, ok bool, err error) {
	path := fmt.Sprintf("/api/v1/courses/%s/enrollments", url.PathEscape(courseID))
	params := url.Values{}
	params.Set("type[]", "StudentEnrollment")
	params.Set("state[]", "active")

	enrollments, err := getAll[Enrollment](ctx, c, path, params)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("list enrollments for course %s: %w", courseID, err)
	}

	users := make(map[int64]struct{})
	for _, e := range enrollments {
		if e.UserID != nil {
			users[*e.UserID] = struct{}{}
		}
	}
	if len(users) == 0 {
		return 0, false, nil
	}
	return len(users), true, nil
}
