package rod

// Test pages served by newTestServer.
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<head><title>Form</title></head>
<body>
	<form id="testForm" onsubmit="return false">
		<input id="username" type="text" name="username" value="old value" />
		<div id="notes" contenteditable="true">old notes</div>
		<button id="submit" type="submit">Submit</button>
		<button id="hidden" style="display:none">Hidden</button>
	</form>
	<div id="result"></div>
	<script>
		document.getElementById('submit').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
	</script>
</body>
</html>`

	ResourcesHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Resources</title>
	<link rel="stylesheet" href="/assets/site.css">
	<style>
		@font-face { font-family: "Brand"; src: url("/assets/brand.woff2") format("woff2"); }
		.brand { font-family: "Brand", sans-serif; }
	</style>
	<script src="/assets/app.js"></script>
</head>
<body>
	<img src="/assets/logo.png">
	<p class="brand">Brand text</p>
	<audio src="/assets/clip.mp3" preload="auto"></audio>
	<div id="done">ready</div>
</body>
</html>`

	RichUIHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="btn1" aria-label="First Button">Button 1</button>
	<div role="checkbox" aria-checked="true" class="toggle option">Direct flights</div>
	<input type="checkbox" id="agree"><label for="agree">I agree</label>
	<div class="event-card"><h3>Release party</h3><time datetime="2026-10-20">Oct 20</time></div>
	<div class="event-card"><h3>No date</h3></div>
</body>
</html>`

	DelayedHTML = `<!DOCTYPE html>
<html>
<body>
	<script>
		setTimeout(function() {
			var el = document.createElement('div');
			el.id = 'late';
			el.textContent = 'late';
			document.body.appendChild(el);
			fetch('/api/items?page=2');
		}, 200);
	</script>
</body>
</html>`
)
