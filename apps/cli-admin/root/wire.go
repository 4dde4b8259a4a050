package root

import (
	"github.com/clubtrack-dev/clubtrack/apps/cli-admin/cmd/bootstrap"
	personcmd "github.com/clubtrack-dev/clubtrack/apps/cli-admin/cmd/person"
)

func init() {
	Root().AddCommand(bootstrap.Command())
	Root().AddCommand(personcmd.Command())
}
