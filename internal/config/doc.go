// Package config defines launcher settings and provides helpers to load,
// validate and save them in YAML format.
//
// Without a settings file the launcher tracks the Trenclik/KOK project on
// GitHub and runs "python submain_app.py".
package config
