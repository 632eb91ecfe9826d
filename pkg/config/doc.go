/*
Package config builds the RunConfiguration of a renamerc run.

	+-----------+     +----------------+     +---------+
	| Defaults  | --> | settings file  | --> |  flags  |
	+-----------+     | yaml/json/hcl  |     +----+----+
	                  +----------------+          |
	                                              v
	                               Resolve (~, absolute paths)
	                                              |
	                                              v
	                               Validate (ConfigurationError)

🎯 Purpose:
- Holds the settings shared by every stage of a run
- Loads optional settings files through registered parsers
- Checks that the mapping file and image folder exist before anything runs

🔄 Flow:
1. Start from Defaults
2. Apply a settings file, if one is given
3. Apply explicitly set flags
4. Resolve paths against the working directory
5. Validate against the filesystem

🔍 Example:

	cfg := config.Defaults()
	settings, err := config.Load(ctx, fs, "renamerc.yaml")
	if err != nil {
		return err
	}
	if err := settings.Apply(&cfg); err != nil {
		return err
	}
	if err := cfg.Resolve(cwd); err != nil {
		return err
	}
	if err := cfg.Validate(fs); err != nil {
		var cerr *config.ConfigurationError
		if errors.As(err, &cerr) {
			fmt.Println(cerr.Reason)
		}
		return err
	}
*/
package config
