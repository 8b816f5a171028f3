// Package migrations contains all database migrations for the skills
// store. Migrations use timestamp versioning (YYYYMMDDHHmmss).
package migrations

import (
	"github.com/schwepps/skills-store/pkg/db"
)

// All returns all registered migrations in the correct order.
// New migrations should be added to this list.
func All() []db.Migration {
	return []db.Migration{
		Migration20250614120000CreateRepositories(),
		Migration20250614120001CreateSkills(),
		Migration20250614120002CreateSyncLogs(),
	}
}
