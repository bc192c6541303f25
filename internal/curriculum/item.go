package curriculum

import "errors"

// ErrStructureMissing reports a curriculum list that lacks its module or title
// column. Callers treat it as a warning and continue with an empty list.
var ErrStructureMissing = errors.New("curriculum structure missing module or title column")

// Item is one piece of course content at a known module and position.
type Item struct {
	ModuleName     string `json:"module"`
	ModulePosition int    `json:"module_position"`
	Title          string `json:"item_title_raw"`
	ItemPosition   int    `json:"item_position"`
	ItemType       string `json:"item_type"`
}

// Header is the column layout written by WriteCSV.
var Header = []string{"module", "module_position", "item_title_raw", "item_position", "item_type"}

var (
	moduleColumns         = []string{"module", "module_name"}
	titleColumns          = []string{"item_title_raw", "video_title_raw", "item_title", "title"}
	modulePositionColumns = []string{"module_position"}
	itemPositionColumns   = []string{"item_position"}
	itemTypeColumns       = []string{"item_type", "type"}
)
