package testsupport

import "coursemetrics/internal/curriculum"

// Item builds a curriculum video item.
func Item(module string, modulePos int, title string, itemPos int) curriculum.Item {
	return curriculum.Item{
		ModuleName:     module,
		ModulePosition: modulePos,
		Title:          title,
		ItemPosition:   itemPos,
		ItemType:       "ExternalTool",
	}
}

// WeekOneCurriculum is a single module holding the lecture from LectureOneRows.
func WeekOneCurriculum() []curriculum.Item {
	return []curriculum.Item{Item("Week 1", 1, "Lecture 1", 1)}
}

// WeekOneCurriculumCSV is WeekOneCurriculum in loader CSV form.
const WeekOneCurriculumCSV = "module,module_position,item_title_raw,item_position,item_type\n" +
	"Week 1,1,Lecture 1,1,ExternalTool\n"
