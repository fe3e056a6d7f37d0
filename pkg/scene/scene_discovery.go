package scene

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// DefaultRandomSeed fixes the layout of the built-in random scene
const DefaultRandomSeed = 42

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to JSON file (file type only)
	Spheres     int    `json:"spheres"`     // Number of spheres in the world
}

type builtinScene struct {
	info   SceneInfo
	create func() (*Scene, error)
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Diffuse, hollow glass and metal spheres on a ground sphere",
			Type:        "builtin",
		},
		create: func() (*Scene, error) { return NewDefaultScene() },
	},
	{
		info: SceneInfo{
			ID:          "random",
			Name:        "Random Spheres",
			Description: "Grid of small random spheres around three large ones",
			Type:        "builtin",
		},
		create: func() (*Scene, error) { return NewRandomScene(DefaultRandomSeed) },
	},
	{
		info: SceneInfo{
			ID:          "glass",
			Name:        "Glass Shells",
			Description: "Solid, hollow and nested dielectric spheres",
			Type:        "builtin",
		},
		create: func() (*Scene, error) { return NewGlassScene() },
	},
	{
		info: SceneInfo{
			ID:          "sphere-grid",
			Name:        "Sphere Grid",
			Description: "10x10 grid of rainbow-colored metallic spheres",
			Type:        "builtin",
		},
		create: func() (*Scene, error) { return NewSphereGridScene() },
	},
}

// FindScenesDir returns the first scenes directory found relative to the working directory,
// or "" when there is none
func FindScenesDir() string {
	// Try different possible paths for scenes directory
	possiblePaths := []string{"scenes", "../scenes", "../../scenes"}

	for _, path := range possiblePaths {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListBuiltinScenes returns the built-in scenes with their sphere counts
func ListBuiltinScenes() ([]SceneInfo, error) {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		s, err := b.create()
		if err != nil {
			return nil, fmt.Errorf("scene %s: %w", b.info.ID, err)
		}
		info := b.info
		info.Spheres = s.SphereCount()
		scenes = append(scenes, info)
	}
	return scenes, nil
}

// ListFileScenes scans dir for JSON scene descriptions. An empty dir yields no scenes.
func ListFileScenes(dir string) ([]SceneInfo, error) {
	if dir == "" {
		return []SceneInfo{}, nil
	}

	pattern := filepath.Join(dir, "*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("scene: scanning %s: %w", dir, err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			logger.Warningf("failed to parse metadata for %s: %v", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ParseSceneMetadata reads the name and description of a JSON scene file,
// falling back to the file name
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:       "file:" + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Type:     "file",
		FilePath: filePath,
	}

	cfg, err := LoadConfig(filePath)
	if err != nil {
		return sceneInfo, err
	}

	if cfg.Name != "" {
		sceneInfo.Name = cfg.Name
	}
	sceneInfo.Description = cfg.Description
	sceneInfo.Spheres = len(cfg.Spheres)

	return sceneInfo, nil
}

// ListAllScenes returns built-in scenes first, then the scene files in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	builtins, err := ListBuiltinScenes()
	if err != nil {
		return nil, err
	}

	files, err := ListFileScenes(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list scene files: %w", err)
	}

	return append(builtins, files...), nil
}

// CreateScene builds the scene with the given id. Built-in ids are plain names,
// file scenes use "file:<name>" and are looked up in dir. name must be a bare
// file name; ids that would resolve outside dir are unknown.
func CreateScene(id, dir string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.create()
		}
	}

	if name, ok := strings.CutPrefix(id, "file:"); ok && dir != "" && isSceneFileName(name) {
		path := filepath.Join(dir, name+".json")
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownScene, id)
}

// isSceneFileName reports whether name names a file directly inside the scenes directory
func isSceneFileName(name string) bool {
	return name != "" && filepath.IsLocal(name) && !strings.ContainsAny(name, `/\`)
}

// WriteSceneTable renders a scene listing as a text table
func WriteSceneTable(w io.Writer, scenes []SceneInfo) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "Name", "Spheres", "Description"})
	for _, s := range scenes {
		table.Append([]string{s.ID, s.Name, strconv.Itoa(s.Spheres), s.Description})
	}
	table.Render()
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
