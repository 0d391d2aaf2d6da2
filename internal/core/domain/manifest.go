package domain

// Manifest is the parsed form of a dynamic plugins manifest file.
// Plugins contributed by Includes form the base layer, the Plugins
// entries of the manifest itself form the override layer on top.
type Manifest struct {
	// Includes lists further manifest files whose plugins are merged
	// first, resolved relative to the process working directory.
	Includes []string

	// Plugins holds the plugin entries of this file in declaration order.
	Plugins []Record
}
