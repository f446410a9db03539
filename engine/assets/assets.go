package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/bilhar/engine/assets/loaders"
	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

var ErrManagerClosed = errors.New("asset manager already closed")

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes an assets directory, hands files to the registered
// loaders and reports changes on disk to the event system.
type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader
	events  *core.EventSystem

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	started  bool
}

func NewAssetManager(events *core.EventSystem) (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		events:   events,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	// Register loaders
	am.RegisterLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})
	am.RegisterLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})
	am.RegisterLoader(metadata.ResourceTypeModel, &loaders.ModelLoader{})
	am.RegisterLoader(metadata.ResourceTypeMaterial, &loaders.MaterialLoader{})

	return am, nil
}

// Initialize indexes assetsDir and starts watching it and every sub-directory.
func (am *AssetManager) Initialize(assetsDir string) error {
	if err := am.addRecursive(assetsDir); err != nil {
		return err
	}
	am.mutex.Lock()
	am.started = true
	am.mutex.Unlock()
	go am.start()

	core.LogInfo("asset manager watching %s (%d assets indexed)", assetsDir, am.Count())
	return nil
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return ErrManagerClosed
	}
	return am.watchRecursive(name)
}

// RegisterLoader sets the loader used for an asset type, replacing any earlier one.
func (am *AssetManager) RegisterLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// Load hands path to the loader registered for assetType. ResourceTypeNone
// picks the type from the file extension. Files outside the watched
// directory are loaded too; they are just not indexed.
func (am *AssetManager) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if assetType == metadata.ResourceTypeNone {
		assetType = DetermineAssetType(path)
	}

	am.mutex.Lock()
	loader, loaderExists := am.loaders[assetType]
	key := filepath.Clean(path)
	if asset, exists := am.assets[key]; exists {
		// Update the loaded time
		asset.LastLoaded = time.Now()
		am.assets[key] = asset
	}
	am.mutex.Unlock()

	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type %s (%s)", assetType, path)
	}
	return loader.Load(path, assetType, params)
}

func (am *AssetManager) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return nil
	}
	am.mutex.RLock()
	loader, ok := am.loaders[resource.Type]
	am.mutex.RUnlock()
	if !ok {
		return nil
	}
	return loader.Unload(resource)
}

func (am *AssetManager) Lookup(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	a, ok := am.assets[filepath.Clean(path)]
	return a, ok
}

// Assets returns the indexed assets of one type, sorted by path.
func (am *AssetManager) Assets(assetType metadata.ResourceType) []AssetInfo {
	am.mutex.RLock()
	var out []AssetInfo
	for _, a := range am.assets {
		if a.Type == assetType {
			out = append(out, a)
		}
	}
	am.mutex.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// Shutdown stops the watcher goroutine and closes the watcher.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	started := am.started
	am.mutex.Unlock()

	if !started {
		return am.fsnotify.Close()
	}
	close(am.done)
	<-am.stopped
	return nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleWatchEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

func (am *AssetManager) handleWatchEvent(e fsnotify.Event) {
	name := filepath.Clean(e.Name)

	s, err := os.Stat(name)
	if err == nil && s != nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := am.watchRecursive(name); err != nil {
				core.LogWarn("could not watch %s: %s", name, err.Error())
			}
		}
		return
	}

	switch {
	case e.Has(fsnotify.Create) || e.Has(fsnotify.Write):
		if am.indexFile(name) {
			am.post(name, false)
		}
	case e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename):
		// Can't stat a deleted path, so it may have been a directory.
		_ = am.fsnotify.Remove(name)
		if am.removeAsset(name) {
			am.post(name, true)
		}
	}
}

func (am *AssetManager) post(path string, removed bool) {
	if am.events == nil {
		return
	}
	err := am.events.Post(core.EventContext{
		Type: core.EVENT_CODE_ASSET_CHANGED,
		Data: &core.AssetEvent{Path: path, Removed: removed},
	})
	if err != nil {
		core.LogWarn("dropping change notification for %s: %s", path, err.Error())
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files it finds.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if strings.HasPrefix(fi.Name(), ".") && walkPath != path {
				return filepath.SkipDir
			}
			return am.fsnotify.Add(walkPath)
		}
		am.indexFile(filepath.Clean(walkPath))
		return nil
	})
}

// indexFile records a file with a known asset type and reports whether it did.
func (am *AssetManager) indexFile(path string) bool {
	assetType := DetermineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	info, ok := am.assets[path]
	if !ok {
		info = AssetInfo{Path: path, Type: assetType}
	}
	am.assets[path] = info
	return true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) bool {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	_, ok := am.assets[path]
	delete(am.assets, path)
	return ok
}

func DetermineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vert", ".frag", ".glsl":
		return metadata.ResourceTypeShader
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return metadata.ResourceTypeImage
	case ".mtl":
		return metadata.ResourceTypeMaterial
	case ".obj":
		return metadata.ResourceTypeModel
	case ".toml":
		return metadata.ResourceTypeConfig
	case ".txt", ".md":
		return metadata.ResourceTypeText
	default:
		return metadata.ResourceTypeNone
	}
}
