package options

import "github.com/spf13/cobra"

// RoutineOptions holds the create/edit flags shared by add and edit.
type RoutineOptions struct {
	Every string
	Emoji string
}

// AddRoutineArgs registers the shared routine flags on cmd.
func AddRoutineArgs(cmd *cobra.Command, o *RoutineOptions) {
	cmd.Flags().StringVarP(&o.Every, "every", "e", "",
		"Interval between occurrences, e.g. 3, 3d, 2w, 1m.")
	cmd.Flags().StringVar(&o.Emoji, "emoji", "",
		"Single glyph shown next to the routine name.")
}

// OutputOptions holds shared output flags.
type OutputOptions struct {
	ShowID bool
}

// AddOutputArgs registers the shared output flags on cmd.
func AddOutputArgs(cmd *cobra.Command, o *OutputOptions) {
	cmd.Flags().BoolVar(&o.ShowID, "show-ids", false,
		"Print routine ids alongside entries.")
}
