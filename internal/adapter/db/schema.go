package db

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableCategories        = "categories"
	tableCourses           = "courses"
	tableModules           = "course_modules"
	tableLessons           = "course_lessons"
	tableResources         = "lesson_resources"
	tableExercises         = "lesson_exercises"
	tableEnrollments       = "course_enrollments"
	tableProgress          = "course_progress"
	tableLessonCompletions = "lesson_completions"
)

var (
	// CategoriesColumns holds the columns for the "categories" table.
	CategoriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID, Unique: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "description", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// CategoriesTable holds the schema information for the "categories" table.
	CategoriesTable = &schema.Table{
		Name:       tableCategories,
		Columns:    CategoriesColumns,
		PrimaryKey: []*schema.Column{CategoriesColumns[0]},
	}

	// CoursesColumns holds the columns for the "courses" table.
	CoursesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID, Unique: true},
		{Name: "title", Type: field.TypeString},
		{Name: "slug", Type: field.TypeString, Unique: true},
		{Name: "description", Type: field.TypeString, Size: 2147483647},
		{Name: "instructor_name", Type: field.TypeString},
		{Name: "instructor_bio", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "level", Type: field.TypeString},
		{Name: "type", Type: field.TypeString},
		{Name: "price", Type: field.TypeFloat64, Nullable: true},
		{Name: "thumbnail_url", Type: field.TypeString, Nullable: true},
		{Name: "intro_video_url", Type: field.TypeString, Nullable: true},
		{Name: "duration_minutes", Type: field.TypeInt, Default: 0},
		{Name: "rating", Type: field.TypeFloat64, Default: 0},
		{Name: "status", Type: field.TypeString},
		{Name: "published_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "category_id", Type: field.TypeUUID},
	}
	// CoursesTable holds the schema information for the "courses" table.
	CoursesTable = &schema.Table{
		Name:       tableCourses,
		Columns:    CoursesColumns,
		PrimaryKey: []*schema.Column{CoursesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "courses_categories_courses",
				Columns:    []*schema.Column{CoursesColumns[17]},
				RefColumns: []*schema.Column{CategoriesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "course_created_at",
				Unique:  false,
				Columns: []*schema.Column{CoursesColumns[15]},
			},
		},
	}

	// ModulesColumns holds the columns for the "course_modules" table.
	ModulesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID, Unique: true},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "order_index", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "course_id", Type: field.TypeUUID},
	}
	// ModulesTable holds the schema information for the "course_modules" table.
	ModulesTable = &schema.Table{
		Name:       tableModules,
		Columns:    ModulesColumns,
		PrimaryKey: []*schema.Column{ModulesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "course_modules_courses_modules",
				Columns:    []*schema.Column{ModulesColumns[6]},
				RefColumns: []*schema.Column{CoursesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "coursemodule_course_id_order_index",
				Unique:  false,
				Columns: []*schema.Column{ModulesColumns[6], ModulesColumns[3]},
			},
		},
	}

	// LessonsColumns holds the columns for the "course_lessons" table.
	LessonsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID, Unique: true},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "type", Type: field.TypeString},
		{Name: "content_url", Type: field.TypeString, Nullable: true},
		{Name: "duration_minutes", Type: field.TypeInt, Default: 0},
		{Name: "is_preview", Type: field.TypeBool, Default: false},
		{Name: "order_index", Type: field.TypeInt},
		{Name: "study_materials", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "practice_materials", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "learning_objectives", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "module_id", Type: field.TypeUUID},
	}
	// LessonsTable holds the schema information for the "course_lessons" table.
	LessonsTable = &schema.Table{
		Name:       tableLessons,
		Columns:    LessonsColumns,
		PrimaryKey: []*schema.Column{LessonsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "course_lessons_course_modules_lessons",
				Columns:    []*schema.Column{LessonsColumns[13]},
				RefColumns: []*schema.Column{ModulesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "courselesson_module_id_order_index",
				Unique:  false,
				Columns: []*schema.Column{LessonsColumns[13], LessonsColumns[7]},
			},
		},
	}

	// ResourcesColumns holds the columns for the "lesson_resources" table.
	ResourcesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID, Unique: true},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "type", Type: field.TypeString},
		{Name: "url", Type: field.TypeString},
		{Name: "is_downloadable", Type: field.TypeBool, Default: true},
		{Name: "order_index", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "lesson_id", Type: field.TypeUUID},
	}
	// ResourcesTable holds the schema information for the "lesson_resources" table.
	ResourcesTable = &schema.Table{
		Name:       tableResources,
		Columns:    ResourcesColumns,
		PrimaryKey: []*schema.Column{ResourcesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "lesson_resources_course_lessons_resources",
				Columns:    []*schema.Column{ResourcesColumns[9]},
				RefColumns: []*schema.Column{LessonsColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
	}

	// ExercisesColumns holds the columns for the "lesson_exercises" table.
	ExercisesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID, Unique: true},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "type", Type: field.TypeString},
		{Name: "content", Type: field.TypeString, Size: 2147483647},
		{Name: "correct_answer", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "explanation", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "points", Type: field.TypeInt, Nullable: true},
		{Name: "order_index", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "lesson_id", Type: field.TypeUUID},
	}
	// ExercisesTable holds the schema information for the "lesson_exercises" table.
	ExercisesTable = &schema.Table{
		Name:       tableExercises,
		Columns:    ExercisesColumns,
		PrimaryKey: []*schema.Column{ExercisesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "lesson_exercises_course_lessons_exercises",
				Columns:    []*schema.Column{ExercisesColumns[11]},
				RefColumns: []*schema.Column{LessonsColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
	}

	// EnrollmentsColumns holds the columns for the "course_enrollments" table.
	EnrollmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID, Unique: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "enrolled_at", Type: field.TypeTime},
		{Name: "course_id", Type: field.TypeUUID},
	}
	// EnrollmentsTable holds the schema information for the "course_enrollments" table.
	EnrollmentsTable = &schema.Table{
		Name:       tableEnrollments,
		Columns:    EnrollmentsColumns,
		PrimaryKey: []*schema.Column{EnrollmentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "course_enrollments_courses_enrollments",
				Columns:    []*schema.Column{EnrollmentsColumns[3]},
				RefColumns: []*schema.Column{CoursesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "courseenrollment_course_id_session_id",
				Unique:  true,
				Columns: []*schema.Column{EnrollmentsColumns[3], EnrollmentsColumns[1]},
			},
		},
	}

	// ProgressColumns holds the columns for the "course_progress" table.
	ProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID, Unique: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "progress_percentage", Type: field.TypeInt, Default: 0},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "last_accessed_at", Type: field.TypeTime},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "course_id", Type: field.TypeUUID},
	}
	// ProgressTable holds the schema information for the "course_progress" table.
	ProgressTable = &schema.Table{
		Name:       tableProgress,
		Columns:    ProgressColumns,
		PrimaryKey: []*schema.Column{ProgressColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "course_progress_courses_progress",
				Columns:    []*schema.Column{ProgressColumns[6]},
				RefColumns: []*schema.Column{CoursesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "courseprogress_course_id_session_id",
				Unique:  true,
				Columns: []*schema.Column{ProgressColumns[6], ProgressColumns[1]},
			},
		},
	}

	// LessonCompletionsColumns holds the columns for the "lesson_completions" table.
	LessonCompletionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID, Unique: true},
		{Name: "time_spent_minutes", Type: field.TypeInt, Default: 0},
		{Name: "completed_at", Type: field.TypeTime},
		{Name: "course_progress_id", Type: field.TypeUUID},
		{Name: "lesson_id", Type: field.TypeUUID},
	}
	// LessonCompletionsTable holds the schema information for the "lesson_completions" table.
	LessonCompletionsTable = &schema.Table{
		Name:       tableLessonCompletions,
		Columns:    LessonCompletionsColumns,
		PrimaryKey: []*schema.Column{LessonCompletionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "lesson_completions_course_progress_completions",
				Columns:    []*schema.Column{LessonCompletionsColumns[3]},
				RefColumns: []*schema.Column{ProgressColumns[0]},
				OnDelete:   schema.NoAction,
			},
			{
				Symbol:     "lesson_completions_course_lessons_completions",
				Columns:    []*schema.Column{LessonCompletionsColumns[4]},
				RefColumns: []*schema.Column{LessonsColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "lessoncompletion_course_progress_id_lesson_id",
				Unique:  true,
				Columns: []*schema.Column{LessonCompletionsColumns[3], LessonCompletionsColumns[4]},
			},
		},
	}

	// Tables holds all the tables in the schema, parents first.
	Tables = []*schema.Table{
		CategoriesTable,
		CoursesTable,
		ModulesTable,
		LessonsTable,
		ResourcesTable,
		ExercisesTable,
		EnrollmentsTable,
		ProgressTable,
		LessonCompletionsTable,
	}
)

func init() {
	CoursesTable.ForeignKeys[0].RefTable = CategoriesTable
	ModulesTable.ForeignKeys[0].RefTable = CoursesTable
	LessonsTable.ForeignKeys[0].RefTable = ModulesTable
	ResourcesTable.ForeignKeys[0].RefTable = LessonsTable
	ExercisesTable.ForeignKeys[0].RefTable = LessonsTable
	EnrollmentsTable.ForeignKeys[0].RefTable = CoursesTable
	ProgressTable.ForeignKeys[0].RefTable = CoursesTable
	LessonCompletionsTable.ForeignKeys[0].RefTable = ProgressTable
	LessonCompletionsTable.ForeignKeys[1].RefTable = LessonsTable
}

// Migrate creates or upgrades the catalog tables.
func Migrate(ctx context.Context, drv dialect.Driver, opts ...schema.MigrateOption) error {
	m, err := schema.NewMigrate(drv, opts...)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}
