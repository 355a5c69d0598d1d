package workout

// DEFAULT_PROGRAM_ALIASES remaps gym programs whose workouts are published
// under a different program.
var DEFAULT_PROGRAM_ALIASES = map[string]string{
	"20714": "109084",
}

// ProgramFor returns the program the workouts of a user on gymProgramId are
// fetched for.
func ProgramFor(aliases map[string]string, gymProgramId string) string {
	alias, ok := aliases[gymProgramId]
	if ok {
		return alias
	}
	return gymProgramId
}
