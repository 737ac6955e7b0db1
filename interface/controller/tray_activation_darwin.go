//go:build darwin
// +build darwin

package controller

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Foundation -framework AppKit

#import <Foundation/Foundation.h>
#import <AppKit/AppKit.h>

void tzexplorerAccessoryApp() {
    [NSApplication sharedApplication];
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
}
*/
import "C"

// runAsMenuBarApp keeps the tray clock out of the Dock and the app switcher
func runAsMenuBarApp() {
	C.tzexplorerAccessoryApp()
}
